package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gavinlouuu-kpt/pg-minio/internal/handlers"
	"github.com/gavinlouuu-kpt/pg-minio/internal/middleware"
	"github.com/gavinlouuu-kpt/pg-minio/internal/models"
	"github.com/gavinlouuu-kpt/pg-minio/internal/services"
	"github.com/gavinlouuu-kpt/pg-minio/internal/utils"
)

func recordsServer(t *testing.T, mockFactory *MockFactory, mockRecorder *MockRecorder) (*echo.Echo, *MockRenderer, *http.Cookie) {
	t.Helper()

	e := echo.New()
	renderer := &MockRenderer{}
	e.Renderer = renderer

	authService := services.NewAuthService("")
	sealed, err := authService.SealCredentials(journeyCreds)
	require.NoError(t, err)

	e.Use(middleware.Auth(authService))
	recordsHandler := handlers.NewRecordsHandler(mockFactory, mockRecorder, zerolog.Nop())
	e.POST("/buckets/:bucketName/record", recordsHandler.RecordFolder)
	e.GET("/records", recordsHandler.ListRecords)

	return e, renderer, &http.Cookie{Name: utils.CookieName, Value: sealed}
}

func TestRecordJourney(t *testing.T) {
	mockFactory := new(MockFactory)
	mockClient := new(MockStorageClient)
	mockRecorder := new(MockRecorder)
	mockFactory.On("NewClient", journeyCreds).Return(mockClient, nil)
	mockRecorder.On("RecordPrefix", mock.Anything, mockClient, "photos", "pets/").Return(3, nil)
	mockRecorder.On("List", mock.Anything).Return([]models.Record{
		{Bucket: "photos", ObjectPath: "pets/cat.jpg", Size: 1024, RecordedAt: time.Now()},
	}, nil)

	e, renderer, cookie := recordsServer(t, mockFactory, mockRecorder)

	// Step A: record the current folder
	form := make(url.Values)
	form.Set("path", "pets/")
	req := httptest.NewRequest(http.MethodPost, "/buckets/photos/record", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "record_result", renderer.LastName)
	data := renderer.LastData.(map[string]interface{})
	assert.Equal(t, 3, data["Count"])

	// Step B: the records page lists what was written
	req = httptest.NewRequest(http.MethodGet, "/records", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "records", renderer.LastName)
	data = renderer.LastData.(map[string]interface{})
	records := data["Records"].([]models.Record)
	require.Len(t, records, 1)
	assert.Equal(t, "pets/cat.jpg", records[0].ObjectPath)
	mockRecorder.AssertExpectations(t)
}

func TestRecordFailureRendersError(t *testing.T) {
	mockFactory := new(MockFactory)
	mockClient := new(MockStorageClient)
	mockRecorder := new(MockRecorder)
	mockFactory.On("NewClient", journeyCreds).Return(mockClient, nil)
	mockRecorder.On("RecordPrefix", mock.Anything, mockClient, "photos", "").Return(0, assert.AnError)

	e, renderer, cookie := recordsServer(t, mockFactory, mockRecorder)

	req := httptest.NewRequest(http.MethodPost, "/buckets/photos/record", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "record_result", renderer.LastName)
	data := renderer.LastData.(map[string]interface{})
	assert.Contains(t, data["Error"], "Recording failed")
}
