// Package storage keeps generated files such as report PDFs on the local
// disk or in an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kkambbaki/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrObjectNotFound is returned when a key does not exist
var ErrObjectNotFound = errors.New("object not found")

// ErrInvalidKey is returned for empty keys or keys escaping the storage root
var ErrInvalidKey = errors.New("invalid storage key")

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Key        string
	Size       int64
	ModifiedAt time.Time
}

// Storage is a flat key/value file store. Keys use forward slashes.
type Storage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// URL returns where the object can be fetched: a filesystem path for
	// local storage, a presigned URL for S3.
	URL(ctx context.Context, key string) (string, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// New builds the backend selected by cfg.Backend
func New(cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStorage(cfg.LocalRoot, logger)
	case "s3":
		return NewS3Storage(cfg, WithLogger(logger))
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidKey)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return fmt.Errorf("%w: %s", ErrInvalidKey, key)
		}
	}
	return nil
}
