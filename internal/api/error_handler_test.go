package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/domapp/portal/internal/api/view"
)

func newErrorTestContext(t *testing.T, withRenderer bool) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	if withRenderer {
		r, err := view.NewRenderer()
		if err != nil {
			t.Fatalf("renderer: %v", err)
		}
		e.Renderer = r
	}
	req := httptest.NewRequest(http.MethodGet, "/somewhere", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	c, rec := newErrorTestContext(t, true)

	NewHTTPErrorHandler(zerolog.Nop())(echo.ErrNotFound, c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Not Found") {
		t.Fatalf("expected error page, got %s", rec.Body.String())
	}
}

func TestHTTPErrorHandler_UnexpectedErrorIsHidden(t *testing.T) {
	var buf bytes.Buffer
	c, rec := newErrorTestContext(t, true)

	NewHTTPErrorHandler(zerolog.New(&buf))(errors.New("dial tcp: connection refused"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("internal error leaked to client")
	}
	if !strings.Contains(buf.String(), "connection refused") {
		t.Fatalf("expected cause in logs, got %s", buf.String())
	}
}

func TestHTTPErrorHandler_PlainTextFallback(t *testing.T) {
	c, rec := newErrorTestContext(t, false)

	NewHTTPErrorHandler(zerolog.Nop())(echo.NewHTTPError(http.StatusBadRequest, "invalid form submission"), c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec.Body.String() != "invalid form submission" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
