// Package storage uploads backup snapshots to an S3 compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/dukerupert/pantrybot/internal/config"
)

// ObjectStorage is the subset of bucket operations the backup manager needs.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// New builds the backend named by cfg.Driver. An empty driver means uploads
// are disabled and New returns nil, nil.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Driver {
	case "":
		return nil, nil
	case "s3":
		return NewS3(ctx, cfg)
	case "minio":
		return NewMinio(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
