package storage

import (
	"context"
	"io"
	"log/slog"

	cfg "github.com/soraformula/soraformula/internal/config"
)

// Storage keeps uploaded reference images
type Storage interface {
	// Save stores the content at the given path
	Save(ctx context.Context, path string, content io.Reader, contentType string) error

	// Delete removes the file at the given path
	Delete(ctx context.Context, path string) error

	// URL returns an address the frontend can fetch the file from
	URL(ctx context.Context, path string) (string, error)
}

// New picks S3-compatible storage when a bucket is configured and the
// local upload directory otherwise
func New(c *cfg.Config) (Storage, error) {
	if !c.UsesS3() {
		slog.Info("initializing local storage", "dir", c.UploadDir)
		return NewLocalStorage(c.UploadDir, "/uploads")
	}

	slog.Info("initializing S3 storage",
		"bucket", c.S3Bucket,
		"region", c.S3Region,
		"endpoint", c.S3Endpoint,
	)
	return NewS3Storage(S3Config{
		Region:        c.S3Region,
		Bucket:        c.S3Bucket,
		AccessKey:     c.S3AccessKey,
		SecretKey:     c.S3SecretKey,
		Endpoint:      c.S3Endpoint,
		PresignExpiry: c.S3PresignExpiryPrivate,
	})
}
