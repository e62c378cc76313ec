// Package recorder persists browsed MinIO objects into a Postgres table so
// other systems can reference them by bucket, path, and etag. The feature is
// opt-in: the server only constructs a Recorder when a DSN is configured.
package recorder

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"

	"github.com/gavinlouuu-kpt/pg-minio/internal/errs"
	"github.com/gavinlouuu-kpt/pg-minio/internal/models"
	"github.com/gavinlouuu-kpt/pg-minio/internal/services"
	"github.com/gavinlouuu-kpt/pg-minio/internal/utils"
)

const (
	defaultMaxConns    = 4
	defaultConnTimeout = 5 * time.Second
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS minio_objects (
    id            BIGSERIAL PRIMARY KEY,
    bucket_name   VARCHAR(255) NOT NULL,
    object_path   VARCHAR(1000) NOT NULL,
    etag          VARCHAR(255),
    size          BIGINT,
    last_modified TIMESTAMPTZ,
    created_at    TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (bucket_name, object_path)
)`

const upsertSQL = `
INSERT INTO minio_objects (bucket_name, object_path, etag, size, last_modified)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (bucket_name, object_path) DO UPDATE
SET etag = EXCLUDED.etag,
    size = EXCLUDED.size,
    last_modified = EXCLUDED.last_modified`

const listSQL = `
SELECT bucket_name, object_path, etag, size, last_modified, created_at
FROM minio_objects
ORDER BY created_at DESC`

// Recorder writes and reads the minio_objects table through a pgx pool.
type Recorder struct {
	pool *pgxpool.Pool
}

// New connects to Postgres and ensures the schema exists.
func New(ctx context.Context, dsn string) (*Recorder, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidInput, "invalid postgres dsn", err)
	}
	poolCfg.MaxConns = defaultMaxConns
	poolCfg.MaxConnIdleTime = defaultConnTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errs.Wrap(errs.KindConnectionFailed, "connect to postgres", err)
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, errs.Wrap(errs.KindConnectionFailed, "ensure minio_objects table", err)
	}

	return &Recorder{pool: pool}, nil
}

// Close releases the connection pool.
func (r *Recorder) Close() {
	r.pool.Close()
}

// RecordPrefix lists every object under prefix recursively and upserts it
// into the table, returning how many rows were written. Folder markers are
// skipped; they are navigation artifacts, not data.
func (r *Recorder) RecordPrefix(ctx context.Context, client services.StorageClient, bucket, prefix string) (int, error) {
	objects, err := CollectObjects(ctx, client, bucket, prefix)
	if err != nil {
		return 0, err
	}

	for _, obj := range objects {
		_, err := r.pool.Exec(ctx, upsertSQL, bucket, obj.Key, obj.ETag, obj.Size, obj.LastModified)
		if err != nil {
			return 0, errs.Wrap(errs.KindConnectionFailed, "record object "+obj.Key, err)
		}
	}
	return len(objects), nil
}

// List returns every recorded row, newest first.
func (r *Recorder) List(ctx context.Context) ([]models.Record, error) {
	rows, err := r.pool.Query(ctx, listSQL)
	if err != nil {
		return nil, errs.Wrap(errs.KindConnectionFailed, "list records", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var rec models.Record
		if err := rows.Scan(&rec.Bucket, &rec.ObjectPath, &rec.ETag, &rec.Size, &rec.LastModified, &rec.RecordedAt); err != nil {
			return nil, errs.Wrap(errs.KindConnectionFailed, "scan record", err)
		}
		rec.FormattedSize = utils.FormatSize(rec.Size)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.KindConnectionFailed, "read records", err)
	}
	return records, nil
}

// CollectObjects gathers the real objects under a prefix, recursively,
// dropping folder markers.
func CollectObjects(ctx context.Context, client services.StorageClient, bucket, prefix string) ([]minio.ObjectInfo, error) {
	raw, err := client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	if err != nil {
		return nil, err
	}

	objects := make([]minio.ObjectInfo, 0, len(raw))
	for _, obj := range raw {
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		objects = append(objects, obj)
	}
	return objects, nil
}
