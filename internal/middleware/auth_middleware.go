package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gavinlouuu-kpt/pg-minio/internal/services"
	"github.com/gavinlouuu-kpt/pg-minio/internal/utils"
)

// publicPaths are reachable without a session.
var publicPaths = map[string]bool{
	"/connect":    true,
	"/disconnect": true,
	"/health":     true,
}

// Auth opens the session cookie on every request and stores the decrypted
// connection credentials in the context. Requests without a valid session
// are sent to the connect form.
func Auth(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if publicPaths[c.Request().URL.Path] {
				return next(c)
			}

			cookie, err := c.Cookie(utils.CookieName)
			if err != nil {
				return c.Redirect(http.StatusSeeOther, "/connect")
			}

			creds, err := authService.OpenCredentials(cookie.Value)
			if err != nil {
				// Unreadable cookie: clear it so the redirect cannot loop.
				cookie.MaxAge = -1
				c.SetCookie(cookie)
				return c.Redirect(http.StatusSeeOther, "/connect")
			}

			c.Set(utils.ContextKeyCreds, creds)
			return next(c)
		}
	}
}
