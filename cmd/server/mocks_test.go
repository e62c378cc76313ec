package main

import (
	"context"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"

	"github.com/gavinlouuu-kpt/pg-minio/internal/models"
	"github.com/gavinlouuu-kpt/pg-minio/internal/services"
)

// MockStorageClient implements services.StorageClient for testing
type MockStorageClient struct {
	mock.Mock
}

func (m *MockStorageClient) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).([]minio.BucketInfo), args.Error(1)
}

func (m *MockStorageClient) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorageClient) ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) ([]minio.ObjectInfo, error) {
	args := m.Called(ctx, bucket, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]minio.ObjectInfo), args.Error(1)
}

func (m *MockStorageClient) PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucket, key, reader, size, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockStorageClient) GetObjectReader(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, minio.ObjectInfo, error) {
	args := m.Called(ctx, bucket, key, opts)
	if args.Get(0) == nil {
		return nil, minio.ObjectInfo{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(minio.ObjectInfo), args.Error(2)
}

func (m *MockStorageClient) StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucket, key, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

// MockFactory implements services.ClientFactory for testing
type MockFactory struct {
	mock.Mock
}

func (m *MockFactory) NewClient(creds services.Credentials) (services.StorageClient, error) {
	args := m.Called(creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(services.StorageClient), args.Error(1)
}

// MockRecorder implements handlers.ObjectRecorder for testing
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordPrefix(ctx context.Context, client services.StorageClient, bucket, prefix string) (int, error) {
	args := m.Called(ctx, client, bucket, prefix)
	return args.Int(0), args.Error(1)
}

func (m *MockRecorder) List(ctx context.Context) ([]models.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Record), args.Error(1)
}

// MockRenderer implements echo.Renderer for testing. It records which
// template was rendered with what data so journeys can assert on view state
// without parsing HTML.
type MockRenderer struct {
	LastName string
	LastData interface{}
}

func (r *MockRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	r.LastName = name
	r.LastData = data
	return nil
}
