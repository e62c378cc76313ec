package handlers

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"

	"github.com/gavinlouuu-kpt/pg-minio/internal/browse"
	"github.com/gavinlouuu-kpt/pg-minio/internal/errs"
	"github.com/gavinlouuu-kpt/pg-minio/internal/models"
	"github.com/gavinlouuu-kpt/pg-minio/internal/services"

	// Preview decoding: stdlib formats plus the webp/bmp extensions the
	// listing allowlist admits.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// maxPreviewBytes caps how much of an object the preview endpoint will
// decode. Larger images are served as placeholders.
const maxPreviewBytes = 20 << 20

// placeholderSVG is shown in the grid when an object cannot be decoded.
const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120 120">` +
	`<rect width="120" height="120" fill="#1e2a35"/>` +
	`<path d="M30 80l20-24 14 16 10-12 16 20z" fill="#3c4b5a"/>` +
	`<circle cx="44" cy="42" r="8" fill="#3c4b5a"/>` +
	`<text x="60" y="108" text-anchor="middle" fill="#6b7a89" font-size="10">unreadable</text>` +
	`</svg>`

// BrowserHandler serves the bucket selector, the virtual directory browser
// with its paginated image grid, and the transfer endpoints.
type BrowserHandler struct {
	factory  services.ClientFactory
	pageSize int
	log      zerolog.Logger
}

func NewBrowserHandler(factory services.ClientFactory, pageSize int, log zerolog.Logger) *BrowserHandler {
	if pageSize < 1 {
		pageSize = browse.DefaultPageSize
	}
	return &BrowserHandler{factory: factory, pageSize: pageSize, log: log}
}

// ListBuckets renders the bucket selector.
func (h *BrowserHandler) ListBuckets(c echo.Context) error {
	creds, err := GetCredentialsOrRedirect(c)
	if err != nil {
		return err
	}

	client, err := h.factory.NewClient(*creds)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to connect to storage")
	}

	buckets, err := client.ListBuckets(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list buckets")
	}

	return c.Render(http.StatusOK, "buckets", map[string]interface{}{
		"ActiveNav": "buckets",
		"Buckets":   buckets,
	})
}

type folderLink struct {
	Name  string
	Query string
}

type pageLink struct {
	Number  int
	Query   string
	Current bool
}

// Browse renders one directory level: subdirectories, breadcrumbs, and the
// current page of the image grid. Browsing state (path, page, search) lives
// entirely in the query string.
func (h *BrowserHandler) Browse(c echo.Context) error {
	creds, err := GetCredentialsOrRedirect(c)
	if err != nil {
		return err
	}

	bucket := c.Param("bucketName")
	state := browse.StateFromQuery(c.QueryParams())

	client, err := h.factory.NewClient(*creds)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to connect to storage")
	}

	folders, objects, err := services.ListDirectory(c.Request().Context(), client, bucket, state.Path, state.Search)
	if err != nil {
		msg := "Failed to list objects"
		if errs.IsNotFound(err) {
			msg = "Bucket " + bucket + " does not exist"
		}
		h.log.Error().Err(err).Str("bucket", bucket).Str("path", state.Path).Msg("listing failed")
		return c.Render(http.StatusOK, "browser", h.browseData(bucket, state, nil, nil, 1, msg))
	}

	pageObjects, effective, totalPages := browse.Paginate(objects, h.pageSize, state.Page)
	state = state.SetPage(effective, totalPages)

	return c.Render(http.StatusOK, "browser", h.browseData(bucket, state, folders, pageObjects, totalPages, ""))
}

func (h *BrowserHandler) browseData(bucket string, state browse.State, folders []models.FolderEntry, objects []models.ObjectEntry, totalPages int, errMsg string) map[string]interface{} {
	folderLinks := make([]folderLink, 0, len(folders))
	for _, f := range folders {
		folderLinks = append(folderLinks, folderLink{
			Name:  f.Name,
			Query: state.Enter(f.Name).Query(),
		})
	}

	crumbs := []models.Breadcrumb{{Name: bucket, Query: state.GoRoot().Query()}}
	if state.Path != "" {
		walked := ""
		for _, seg := range strings.Split(strings.TrimSuffix(state.Path, "/"), "/") {
			walked = browse.Join(walked, seg)
			crumbs = append(crumbs, models.Breadcrumb{Name: seg, Query: state.At(walked).Query()})
		}
	}

	pages := make([]pageLink, 0, totalPages)
	for n := 1; n <= totalPages; n++ {
		pages = append(pages, pageLink{
			Number:  n,
			Query:   state.SetPage(n, totalPages).Query(),
			Current: n == state.Page,
		})
	}

	data := map[string]interface{}{
		"ActiveNav":   "buckets",
		"BucketName":  bucket,
		"Path":        state.Path,
		"Search":      state.Search,
		"Page":        state.Page,
		"TotalPages":  totalPages,
		"Folders":     folderLinks,
		"Objects":     objects,
		"Breadcrumbs": crumbs,
		"Pages":       pages,
		"AtRoot":      state.Path == "",
		"UpQuery":     state.GoUp().Query(),
		"Error":       errMsg,
	}
	if state.Page > 1 {
		data["PrevQuery"] = state.SetPage(state.Page-1, totalPages).Query()
	}
	if state.Page < totalPages {
		data["NextQuery"] = state.SetPage(state.Page+1, totalPages).Query()
	}
	return data
}

// Upload stores a file under the current virtual path. Failures re-render
// the upload form fragment so the user can retry without losing the page.
func (h *BrowserHandler) Upload(c echo.Context) error {
	creds, err := GetCredentials(c)
	if err != nil {
		return err
	}

	bucket := c.Param("bucketName")
	path := browse.Clean(c.QueryParam("path"))

	file, err := c.FormFile("file")
	if err != nil {
		return c.Render(http.StatusOK, "upload_error", "Choose a file to upload")
	}

	name := strings.TrimPrefix(c.FormValue("objectName"), "/")
	if name == "" {
		name = file.Filename
	}

	src, err := file.Open()
	if err != nil {
		return c.Render(http.StatusOK, "upload_error", "Could not read the uploaded file")
	}
	defer func() { _ = src.Close() }()

	client, err := h.factory.NewClient(*creds)
	if err != nil {
		return c.Render(http.StatusOK, "upload_error", "Failed to connect to storage")
	}

	key := path + name
	_, err = client.PutObject(c.Request().Context(), bucket, key, src, file.Size, minio.PutObjectOptions{
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		h.log.Error().Err(err).Str("bucket", bucket).Str("key", key).Msg("upload failed")
		return c.Render(http.StatusOK, "upload_error", "Upload rejected: "+key)
	}

	// Fresh listing picks up the new object.
	redirect := "/buckets/" + bucket
	if q := (browse.State{Path: path, Page: 1}).Query(); q != "" {
		redirect += "?" + q
	}
	return HTMXRedirect(c, redirect)
}

// Download streams an object in its original format as an attachment.
func (h *BrowserHandler) Download(c echo.Context) error {
	creds, err := GetCredentialsOrRedirect(c)
	if err != nil {
		return err
	}

	bucket := c.Param("bucketName")
	key := c.QueryParam("key")

	client, err := h.factory.NewClient(*creds)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to connect to storage")
	}

	reader, info, err := client.GetObjectReader(c.Request().Context(), bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if errs.IsNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, "Object no longer exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch object")
	}
	defer func() { _ = reader.Close() }()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+browse.BaseName(key)+`"`)
	c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(info.Size, 10))

	return c.Stream(http.StatusOK, contentType, reader)
}

// Preview decodes an object and re-encodes it as PNG for the grid. Anything
// that fails to decode renders as a placeholder rather than breaking the
// page.
func (h *BrowserHandler) Preview(c echo.Context) error {
	creds, err := GetCredentials(c)
	if err != nil {
		return err
	}

	bucket := c.Param("bucketName")
	key := c.QueryParam("key")

	client, err := h.factory.NewClient(*creds)
	if err != nil {
		return h.placeholder(c)
	}

	reader, info, err := client.GetObjectReader(c.Request().Context(), bucket, key, minio.GetObjectOptions{})
	if err != nil {
		h.log.Warn().Err(err).Str("bucket", bucket).Str("key", key).Msg("preview fetch failed")
		return h.placeholder(c)
	}
	defer func() { _ = reader.Close() }()

	if info.Size > maxPreviewBytes {
		return h.placeholder(c)
	}

	raw, err := io.ReadAll(io.LimitReader(reader, maxPreviewBytes))
	if err != nil {
		return h.placeholder(c)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		decodeErr := errs.Wrap(errs.KindDecodeFailed, "decode "+key, err)
		h.log.Warn().Err(decodeErr).Str("bucket", bucket).Msg("object is not a renderable image")
		return h.placeholder(c)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return h.placeholder(c)
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (h *BrowserHandler) placeholder(c echo.Context) error {
	return c.Blob(http.StatusOK, "image/svg+xml", []byte(placeholderSVG))
}
