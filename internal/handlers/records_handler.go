package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gavinlouuu-kpt/pg-minio/internal/browse"
	"github.com/gavinlouuu-kpt/pg-minio/internal/models"
	"github.com/gavinlouuu-kpt/pg-minio/internal/services"
)

// ObjectRecorder is the slice of the recorder the handlers need.
type ObjectRecorder interface {
	RecordPrefix(ctx context.Context, client services.StorageClient, bucket, prefix string) (int, error)
	List(ctx context.Context) ([]models.Record, error)
}

// RecordsHandler exposes the Postgres object recorder: record a folder's
// objects from the browser, and view everything recorded so far.
type RecordsHandler struct {
	factory  services.ClientFactory
	recorder ObjectRecorder
	log      zerolog.Logger
}

func NewRecordsHandler(factory services.ClientFactory, recorder ObjectRecorder, log zerolog.Logger) *RecordsHandler {
	return &RecordsHandler{factory: factory, recorder: recorder, log: log}
}

// RecordFolder upserts every object under the current virtual path into the
// records table and reports how many rows were written.
func (h *RecordsHandler) RecordFolder(c echo.Context) error {
	creds, err := GetCredentials(c)
	if err != nil {
		return err
	}

	bucket := c.Param("bucketName")
	path := browse.Clean(c.FormValue("path"))

	client, err := h.factory.NewClient(*creds)
	if err != nil {
		return c.Render(http.StatusOK, "record_result", map[string]interface{}{
			"Error": "Failed to connect to storage",
		})
	}

	count, err := h.recorder.RecordPrefix(c.Request().Context(), client, bucket, path)
	if err != nil {
		h.log.Error().Err(err).Str("bucket", bucket).Str("path", path).Msg("recording failed")
		return c.Render(http.StatusOK, "record_result", map[string]interface{}{
			"Error": "Recording failed; nothing was written",
		})
	}

	return c.Render(http.StatusOK, "record_result", map[string]interface{}{
		"Count": count,
	})
}

// ListRecords renders the recorded objects, newest first.
func (h *RecordsHandler) ListRecords(c echo.Context) error {
	if _, err := GetCredentialsOrRedirect(c); err != nil {
		return err
	}

	records, err := h.recorder.List(c.Request().Context())
	if err != nil {
		h.log.Error().Err(err).Msg("listing records failed")
		return c.Render(http.StatusOK, "records", map[string]interface{}{
			"ActiveNav": "records",
			"Error":     "Failed to read records from Postgres",
		})
	}

	return c.Render(http.StatusOK, "records", map[string]interface{}{
		"ActiveNav": "records",
		"Records":   records,
		"Count":     strconv.Itoa(len(records)),
	})
}
