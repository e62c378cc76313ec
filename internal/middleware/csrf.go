package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// CSRF protects form posts with a double-submit cookie, read back from the
// X-CSRF-Token header that the base layout injects into every HTMX request.
// Every mutation in the app goes through HTMX, so unsafe requests without
// the token are rejected; the one exemption is the connect form, which has
// no session yet and must still work as a plain form post.
func CSRF() echo.MiddlewareFunc {
	return echoMiddleware.CSRFWithConfig(echoMiddleware.CSRFConfig{
		TokenLookup:    "header:X-CSRF-Token",
		CookieName:     "csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteStrictMode,
		Skipper: func(c echo.Context) bool {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
				return false
			}
			if c.Request().Header.Get("HX-Request") == "true" {
				return false
			}
			return c.Request().URL.Path == "/connect"
		},
	})
}
