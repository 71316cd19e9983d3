package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// CSRFField is the hidden form field carrying the token.
const CSRFField = "csrf"

// CSRF protects the HTML forms. The token cookie follows the session
// cookie's Secure flag.
func CSRF(secure bool) echo.MiddlewareFunc {
	return echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Path()
			return path == "/health" || path == "/health/ready" || path == "/metrics"
		},
		TokenLookup:    "form:" + CSRFField,
		ContextKey:     echomiddleware.DefaultCSRFConfig.ContextKey,
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteLaxMode,
	})
}
