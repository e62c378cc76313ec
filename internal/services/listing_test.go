package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavinlouuu-kpt/pg-minio/internal/errs"
)

// stubClient serves canned listings keyed by prefix.
type stubClient struct {
	buckets    map[string]bool
	byPrefix   map[string][]minio.ObjectInfo
	lastOpts   minio.ListObjectsOptions
	listCalled int
}

func (s *stubClient) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	return nil, nil
}

func (s *stubClient) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return s.buckets[bucket], nil
}

func (s *stubClient) ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) ([]minio.ObjectInfo, error) {
	s.lastOpts = opts
	s.listCalled++
	return s.byPrefix[opts.Prefix], nil
}

func (s *stubClient) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return minio.UploadInfo{}, nil
}

func (s *stubClient) GetObjectReader(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, minio.ObjectInfo, error) {
	return nil, minio.ObjectInfo{}, errs.New(errs.KindNotFound, "no such object")
}

func (s *stubClient) StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return minio.ObjectInfo{}, nil
}

func newStub() *stubClient {
	return &stubClient{
		buckets: map[string]bool{"photos": true},
		byPrefix: map[string][]minio.ObjectInfo{
			"": {
				{Key: "zebra.png", Size: 10, LastModified: time.Now()},
				{Key: "pets/"},
				{Key: "Archive/"},
				{Key: "notes.txt", Size: 5},
				{Key: "Apple.JPG", Size: 20},
			},
			"pets/": {
				{Key: "pets/"}, // folder marker for the prefix itself
				{Key: "pets/cat.jpg", Size: 11},
				{Key: "pets/Dog.png", Size: 12},
				{Key: "pets/exotic/"},
				{Key: "pets/manual.pdf", Size: 13},
			},
		},
	}
}

func TestListDirectoryRoot(t *testing.T) {
	client := newStub()

	folders, objects, err := ListDirectory(context.Background(), client, "photos", "", "")
	require.NoError(t, err)

	// Non-recursive, prefix = virtual path
	assert.False(t, client.lastOpts.Recursive)
	assert.Equal(t, "", client.lastOpts.Prefix)

	// Folders sorted case-insensitively, never search infrastructure
	require.Len(t, folders, 2)
	assert.Equal(t, "Archive", folders[0].Name)
	assert.Equal(t, "Archive/", folders[0].Prefix)
	assert.Equal(t, "pets", folders[1].Name)

	// Non-image keys are dropped; objects sorted case-insensitively
	require.Len(t, objects, 2)
	assert.Equal(t, "Apple.JPG", objects[0].DisplayName)
	assert.Equal(t, "zebra.png", objects[1].DisplayName)
	assert.NotEmpty(t, objects[0].FormattedSize)
}

func TestListDirectoryNestedPath(t *testing.T) {
	folders, objects, err := ListDirectory(context.Background(), newStub(), "photos", "pets/", "")
	require.NoError(t, err)

	require.Len(t, folders, 1)
	assert.Equal(t, "exotic", folders[0].Name)
	assert.Equal(t, "pets/exotic/", folders[0].Prefix)

	require.Len(t, objects, 2)
	assert.Equal(t, "cat.jpg", objects[0].DisplayName)
	assert.Equal(t, "pets/cat.jpg", objects[0].Key)
	assert.Equal(t, "Dog.png", objects[1].DisplayName)
}

func TestListDirectorySearchIsCaseInsensitive(t *testing.T) {
	for _, term := range []string{"cat", "CAT", "Ca"} {
		folders, objects, err := ListDirectory(context.Background(), newStub(), "photos", "pets/", term)
		require.NoError(t, err)

		require.Len(t, objects, 1, "term=%q", term)
		assert.Equal(t, "cat.jpg", objects[0].DisplayName)

		// Folders are not filtered by the search term
		assert.Len(t, folders, 1)
	}
}

func TestListDirectorySearchNoMatches(t *testing.T) {
	_, objects, err := ListDirectory(context.Background(), newStub(), "photos", "pets/", "giraffe")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestListDirectoryEmptyBucket(t *testing.T) {
	client := &stubClient{buckets: map[string]bool{"empty": true}}

	folders, objects, err := ListDirectory(context.Background(), client, "empty", "", "")
	require.NoError(t, err)
	assert.Empty(t, folders)
	assert.Empty(t, objects)
}

func TestListDirectoryMissingBucket(t *testing.T) {
	_, _, err := ListDirectory(context.Background(), newStub(), "nope", "", "")
	assert.True(t, errs.IsNotFound(err))
}

func TestIsImageKey(t *testing.T) {
	assert.True(t, IsImageKey("a/b/cat.jpg"))
	assert.True(t, IsImageKey("CAT.PNG"))
	assert.True(t, IsImageKey("x.webp"))
	assert.False(t, IsImageKey("x.pdf"))
	assert.False(t, IsImageKey("noext"))
}

func TestMatchesSearch(t *testing.T) {
	assert.True(t, MatchesSearch("Cat.jpg", ""))
	assert.True(t, MatchesSearch("Cat.jpg", "cAt"))
	assert.True(t, MatchesSearch("cat.jpg", "CAT"))
	assert.False(t, MatchesSearch("dog.png", "cat"))
}
