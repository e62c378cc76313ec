package services

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gavinlouuu-kpt/pg-minio/internal/errs"
)

// Credentials is the connection config collected on the login form. It is
// immutable once a session is established; reconnecting replaces it.
type Credentials struct {
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"accessKey"`
	SecretKey string `json:"secretKey"`
	UseTLS    bool   `json:"useTLS"`
}

// StorageClient is the slice of the S3 API this application consumes.
type StorageClient interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucket string) (bool, error)

	// ListObjects drains the listing into a slice. Delimiter semantics follow
	// opts.Recursive: non-recursive listings report common prefixes as keys
	// with a trailing slash.
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) ([]minio.ObjectInfo, error)

	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)

	// GetObjectReader opens the object for streaming and stats it up front so
	// missing keys fail here instead of midway through the response body.
	// The caller owns the returned ReadCloser.
	GetObjectReader(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, minio.ObjectInfo, error)

	StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// ClientFactory builds a StorageClient from per-session credentials.
type ClientFactory interface {
	NewClient(creds Credentials) (StorageClient, error)
}

// MinioFactory is the production ClientFactory backed by minio-go.
type MinioFactory struct{}

func (f *MinioFactory) NewClient(creds Credentials) (StorageClient, error) {
	client, err := minio.New(creds.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(creds.AccessKey, creds.SecretKey, ""),
		Secure: creds.UseTLS,
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindConnectionFailed, "invalid endpoint", err)
	}
	return &wrappedClient{client: client}, nil
}

// wrappedClient adapts *minio.Client to StorageClient, translating SDK
// errors into the errs taxonomy.
type wrappedClient struct {
	client *minio.Client
}

func (c *wrappedClient) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	buckets, err := c.client.ListBuckets(ctx)
	if err != nil {
		return nil, mapStorageError(err, "list buckets")
	}
	return buckets, nil
}

func (c *wrappedClient) BucketExists(ctx context.Context, bucket string) (bool, error) {
	ok, err := c.client.BucketExists(ctx, bucket)
	if err != nil {
		return false, mapStorageError(err, "check bucket")
	}
	return ok, nil
}

func (c *wrappedClient) ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) ([]minio.ObjectInfo, error) {
	var objects []minio.ObjectInfo
	for obj := range c.client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, mapStorageError(obj.Err, "list objects")
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func (c *wrappedClient) PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	info, err := c.client.PutObject(ctx, bucket, key, reader, size, opts)
	if err != nil {
		return minio.UploadInfo{}, errs.Wrap(errs.KindUploadFailed, "put object "+key, err)
	}
	return info, nil
}

func (c *wrappedClient) GetObjectReader(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, minio.ObjectInfo, error) {
	obj, err := c.client.GetObject(ctx, bucket, key, opts)
	if err != nil {
		return nil, minio.ObjectInfo{}, mapStorageError(err, "get object "+key)
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, minio.ObjectInfo{}, mapStorageError(err, "stat object "+key)
	}
	return obj, info, nil
}

func (c *wrappedClient) StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	info, err := c.client.StatObject(ctx, bucket, key, opts)
	if err != nil {
		return minio.ObjectInfo{}, mapStorageError(err, "stat object "+key)
	}
	return info, nil
}

// mapStorageError translates a minio-go error into the errs taxonomy so
// handlers never branch on SDK types.
func mapStorageError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.KindTimeout, msg, err)
	}

	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		switch resp.Code {
		case "NoSuchBucket", "NoSuchKey":
			return errs.Wrap(errs.KindNotFound, msg, err)
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return errs.Wrap(errs.KindPermissionDenied, msg, err)
		case "InvalidBucketName", "InvalidObjectName", "KeyTooLongError":
			return errs.Wrap(errs.KindInvalidInput, msg, err)
		case "RequestTimeout", "SlowDown":
			return errs.Wrap(errs.KindTimeout, msg, err)
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return errs.Wrap(errs.KindNotFound, msg, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return errs.Wrap(errs.KindPermissionDenied, msg, err)
		case http.StatusBadRequest:
			return errs.Wrap(errs.KindInvalidInput, msg, err)
		}
	}

	return errs.Wrap(errs.KindConnectionFailed, msg, err)
}
