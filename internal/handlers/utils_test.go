package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavinlouuu-kpt/pg-minio/internal/services"
	"github.com/gavinlouuu-kpt/pg-minio/internal/utils"
)

func testContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetCredentialsFromContext(t *testing.T) {
	c, _ := testContext()
	c.Set(utils.ContextKeyCreds, &services.Credentials{Endpoint: "minio:9000"})

	creds, err := GetCredentials(c)

	require.NoError(t, err)
	assert.Equal(t, "minio:9000", creds.Endpoint)
}

func TestGetCredentialsMissingReturns401(t *testing.T) {
	c, _ := testContext()

	_, err := GetCredentials(c)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestGetCredentialsOrRedirectSendsToConnect(t *testing.T) {
	c, rec := testContext()

	_, err := GetCredentialsOrRedirect(c)

	require.Error(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/connect", rec.Header().Get("Location"))
}

func TestHTMXRedirectSetsHeader(t *testing.T) {
	c, rec := testContext()

	err := HTMXRedirect(c, "/buckets")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/buckets", rec.Header().Get("HX-Redirect"))
}
