package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gavinlouuu-kpt/pg-minio/internal/errs"
	"github.com/gavinlouuu-kpt/pg-minio/internal/services"
	"github.com/gavinlouuu-kpt/pg-minio/internal/utils"
)

// AuthHandler serves the connection form and establishes sessions.
type AuthHandler struct {
	authService     *services.AuthService
	factory         services.ClientFactory
	defaultEndpoint string
}

func NewAuthHandler(authService *services.AuthService, factory services.ClientFactory, defaultEndpoint string) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		factory:         factory,
		defaultEndpoint: defaultEndpoint,
	}
}

// ConnectPage renders the connection form. An existing valid session skips
// straight to the bucket list.
func (h *AuthHandler) ConnectPage(c echo.Context) error {
	if cookie, err := c.Cookie(utils.CookieName); err == nil {
		if _, err := h.authService.OpenCredentials(cookie.Value); err == nil {
			return c.Redirect(http.StatusSeeOther, "/buckets")
		}
	}
	return c.Render(http.StatusOK, "connect", map[string]interface{}{
		"DefaultEndpoint": h.defaultEndpoint,
	})
}

// Connect validates the submitted connection config against the server and,
// on success, seals it into the session cookie. The connection is probed
// with a ListBuckets call; a failed probe means no session is created.
func (h *AuthHandler) Connect(c echo.Context) error {
	creds := services.Credentials{
		Endpoint:  c.FormValue("endpoint"),
		AccessKey: c.FormValue("accessKey"),
		SecretKey: c.FormValue("secretKey"),
		UseTLS:    c.FormValue("useTLS") == "on",
	}

	if creds.Endpoint == "" || creds.AccessKey == "" || creds.SecretKey == "" {
		return c.Render(http.StatusOK, "connect_error", "Please fill in all connection details")
	}

	client, err := h.factory.NewClient(creds)
	if err != nil {
		return c.Render(http.StatusOK, "connect_error", "Invalid endpoint")
	}

	if _, err := client.ListBuckets(c.Request().Context()); err != nil {
		msg := "Connection failed: endpoint unreachable"
		if errs.IsPermissionDenied(err) {
			msg = "Connection failed: invalid credentials"
		}
		return c.Render(http.StatusOK, "connect_error", msg)
	}

	sealed, err := h.authService.SealCredentials(creds)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	c.SetCookie(h.sessionCookie(c, sealed, 24*time.Hour))
	return HTMXRedirect(c, "/buckets")
}

// Disconnect drops the session and returns to the connect form.
func (h *AuthHandler) Disconnect(c echo.Context) error {
	cookie := h.sessionCookie(c, "", -time.Hour)
	cookie.MaxAge = -1
	c.SetCookie(cookie)
	return c.Redirect(http.StatusSeeOther, "/connect")
}

func (h *AuthHandler) sessionCookie(c echo.Context, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     utils.CookieName,
		Value:    value,
		Expires:  time.Now().Add(ttl),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   requestIsSecure(c),
	}
}

func requestIsSecure(c echo.Context) bool {
	if c.Request().TLS != nil {
		return true
	}
	return c.Request().Header.Get("X-Forwarded-Proto") == "https"
}
