package handler

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/domapp/portal/internal/api/view"
	"github.com/domapp/portal/internal/session"
)

// csrfToken returns the token set by echo's CSRF middleware, or "" when the
// middleware is disabled.
func csrfToken(c echo.Context) string {
	tok, _ := c.Get(echomiddleware.DefaultCSRFConfig.ContextKey).(string)
	return tok
}

// render pops the queued flashes into the page, saves the session and then
// writes the template. The save has to happen before the body is written
// so the cookie header still goes out.
func (h *AuthHandler) render(c echo.Context, sess *sessions.Session, code int, name string, page view.Page) error {
	page.Messages = session.PopMessages(sess)
	page.CSRF = csrfToken(c)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	return c.Render(code, name, page)
}

// redirect saves the session and sends a 303 so that a refreshed page never
// resubmits a form.
func (h *AuthHandler) redirect(c echo.Context, sess *sessions.Session, to string) error {
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, to)
}
