package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gavinlouuu-kpt/pg-minio/internal/services"
	"github.com/gavinlouuu-kpt/pg-minio/internal/utils"
)

// GetCredentials pulls the session credentials the auth middleware stowed in
// the context.
func GetCredentials(c echo.Context) (*services.Credentials, error) {
	val := c.Get(utils.ContextKeyCreds)
	creds, ok := val.(*services.Credentials)
	if !ok || creds == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not connected")
	}
	return creds, nil
}

// GetCredentialsOrRedirect is GetCredentials for full-page routes: a missing
// session sends the browser to the connect form instead of a bare 401. The
// returned error is always non-nil in that case so callers can bail out; the
// redirect is already committed and echo will not write over it.
func GetCredentialsOrRedirect(c echo.Context) (*services.Credentials, error) {
	creds, err := GetCredentials(c)
	if err != nil {
		if redirErr := c.Redirect(http.StatusSeeOther, "/connect"); redirErr != nil {
			return nil, redirErr
		}
		return nil, err
	}
	return creds, nil
}

// HTMXRedirect answers an HTMX request with a client-side redirect.
func HTMXRedirect(c echo.Context, url string) error {
	c.Response().Header().Set("HX-Redirect", url)
	return c.NoContent(http.StatusOK)
}
