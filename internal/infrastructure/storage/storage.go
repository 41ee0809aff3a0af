package storage

import (
	"context"
	"time"
)

// ObjectStorage abstracts an S3-compatible object store. The document
// pipeline uses it to persist generated PDFs and hand out short-lived
// download links.
type ObjectStorage interface {
	// Upload stores raw data under the given key
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	// Download fetches the raw contents of an object
	Download(ctx context.Context, storageKey string) ([]byte, error)
	// DeleteObject removes an object
	DeleteObject(ctx context.Context, storageKey string) error
	// ObjectExists reports whether an object exists
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	// GenerateDownloadURL returns a presigned GET URL and its expiry
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	// GenerateUploadURL returns a presigned PUT URL and its expiry
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
}
