package service

import (
	"context"
	"io"
)

// ObjectStore holds blobs by key. Uploading to an existing key replaces it.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Download(ctx context.Context, key string, maxBytes int64) ([]byte, error)
	PublicURL(ctx context.Context, key string) (string, error)
}
