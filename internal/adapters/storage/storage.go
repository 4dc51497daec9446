package storage

import (
	"context"
	"fmt"
	"io"

	"mess-feedback/internal/config"
)

// Key prefixes for the two kinds of stored files
const (
	UploadsPrefix = "uploads"
	ExportsPrefix = "exports"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// New builds the backend selected by cfg.Backend
func New(cfg config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStorage(cfg.Root), nil
	case "minio":
		return NewMinioClient(cfg.Minio)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (must be 'local' or 'minio')", cfg.Backend)
	}
}
