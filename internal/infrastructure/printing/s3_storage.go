package printing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/promoshop/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// S3PDFStorage stores rendered PDFs in an S3-compatible object store.
// Download links are presigned on demand via GetURL's storage backend,
// so PdfURL on a document stays stable while access URLs expire.
type S3PDFStorage struct {
	objects   storage.ObjectStorage
	keyPrefix string
	urlTTL    time.Duration
	logger    *zap.Logger
}

// S3PDFStorageConfig contains configuration for S3-backed PDF storage
type S3PDFStorageConfig struct {
	// KeyPrefix is prepended to all object keys
	// Default: documents
	KeyPrefix string
	// URLTTL is the lifetime of presigned download URLs
	// Default: 15 minutes
	URLTTL time.Duration
	// Logger for operations
	Logger *zap.Logger
}

// NewS3PDFStorage creates a PDF storage backed by an object store
func NewS3PDFStorage(objects storage.ObjectStorage, config *S3PDFStorageConfig) *S3PDFStorage {
	if config == nil {
		config = &S3PDFStorageConfig{}
	}

	prefix := config.KeyPrefix
	if prefix == "" {
		prefix = "documents"
	}
	ttl := config.URLTTL
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &S3PDFStorage{
		objects:   objects,
		keyPrefix: prefix,
		urlTTL:    ttl,
		logger:    logger,
	}
}

// Store uploads a PDF and returns its object key and a presigned URL
func (s *S3PDFStorage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "store request is nil", nil)
	}
	if len(req.PDFData) == 0 {
		return nil, NewRenderError(ErrCodeStorageFailed, "PDF data is empty", nil)
	}

	now := time.Now()
	key := path.Join(
		s.keyPrefix,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		buildFileName(req),
	)

	if err := s.objects.Upload(ctx, key, req.PDFData, "application/pdf"); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to upload PDF", err)
	}

	url, _, err := s.objects.GenerateDownloadURL(ctx, key, s.urlTTL)
	if err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to presign download URL", err)
	}

	s.logger.Info("PDF stored in object storage",
		zap.String("key", key),
		zap.Int("size", len(req.PDFData)))

	return &StoreResult{
		Path: key,
		URL:  url,
		Size: int64(len(req.PDFData)),
	}, nil
}

// Get downloads a PDF by its object key
func (s *S3PDFStorage) Get(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	data, err := s.objects.Download(ctx, storagePath)
	if err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to download PDF", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes a PDF from the object store
func (s *S3PDFStorage) Delete(ctx context.Context, storagePath string) error {
	if err := s.objects.DeleteObject(ctx, storagePath); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "failed to delete PDF", err)
	}
	return nil
}

// GetURL presigns a fresh download URL for the object key.
// Presigning needs a context so errors here fall back to the raw key path.
func (s *S3PDFStorage) GetURL(storagePath string) string {
	url, _, err := s.objects.GenerateDownloadURL(context.Background(), storagePath, s.urlTTL)
	if err != nil {
		s.logger.Warn("failed to presign download URL",
			zap.String("key", storagePath),
			zap.Error(err))
		return storagePath
	}
	return url
}

// Ensure S3PDFStorage implements PDFStorage
var _ PDFStorage = (*S3PDFStorage)(nil)
