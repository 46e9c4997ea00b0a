package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore defines the interface for attachment blob storage
type ObjectStore interface {
	Upload(ctx context.Context, objectKey string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectKey string) error
	GeneratePresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}
