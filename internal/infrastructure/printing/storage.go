package printing

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PDFStorage defines the interface for storing and retrieving PDF files
type PDFStorage interface {
	// Store saves a PDF file and returns its URL/path
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	// Get retrieves a PDF file by its path
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes a PDF file
	Delete(ctx context.Context, path string) error
	// GetURL returns the accessible URL for a stored PDF
	GetURL(path string) string
}

// StoreRequest contains the parameters for storing a PDF
type StoreRequest struct {
	// DocumentID is the document identifier
	DocumentID uuid.UUID
	// OrderNumber is used in the file name for traceability
	OrderNumber string
	// DocTypeSlug is the lowercased document type used in the file name
	DocTypeSlug string
	// PDFData is the raw PDF content
	PDFData []byte
}

// StoreResult contains the result of storing a PDF
type StoreResult struct {
	// Path is the storage path (relative to base)
	Path string
	// URL is the accessible URL for the PDF
	URL string
	// Size is the file size in bytes
	Size int64
}

// FileSystemStorageConfig contains configuration for file system storage
type FileSystemStorageConfig struct {
	// BasePath is the root directory for PDF storage
	// Default: /data/documents
	BasePath string
	// BaseURL is the URL prefix for accessing PDFs
	// Example: https://shop.example.com/api/v1/documents/files
	BaseURL string
	// RetentionDays is how long to keep PDFs (0 = forever)
	RetentionDays int
	// Logger for operations
	Logger *zap.Logger
}

// FileSystemStorage stores PDFs on the local file system
type FileSystemStorage struct {
	config *FileSystemStorageConfig
	logger *zap.Logger
}

// NewFileSystemStorage creates a new file system based PDF storage
func NewFileSystemStorage(config *FileSystemStorageConfig) (*FileSystemStorage, error) {
	if config == nil {
		config = &FileSystemStorageConfig{}
	}

	if config.BasePath == "" {
		config.BasePath = "/data/documents"
	}
	if config.BaseURL == "" {
		config.BaseURL = "/api/v1/documents/files"
	}

	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create storage directory: %s", config.BasePath), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileSystemStorage{
		config: config,
		logger: logger,
	}, nil
}

// Store saves a PDF file to the file system.
// Path structure: {base}/{year}/{month}/{doc_type}-{order_number}-{document_id}.pdf
func (s *FileSystemStorage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	select {
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	if req == nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "store request is nil", nil)
	}
	if req.DocumentID == uuid.Nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "document ID is required", nil)
	}
	if len(req.PDFData) == 0 {
		return nil, NewRenderError(ErrCodeStorageFailed, "PDF data is empty", nil)
	}

	now := time.Now()
	dirPath := filepath.Join(
		s.config.BasePath,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
	)

	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create directory", err)
	}

	fileName := buildFileName(req)
	filePath := filepath.Join(dirPath, fileName)

	if err := os.WriteFile(filePath, req.PDFData, 0644); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to write PDF file", err)
	}

	relativePath := filepath.Join(
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		fileName,
	)

	url := s.GetURL(relativePath)

	s.logger.Info("PDF stored",
		zap.String("path", filePath),
		zap.Int("size", len(req.PDFData)),
		zap.String("url", url))

	return &StoreResult{
		Path: relativePath,
		URL:  url,
		Size: int64(len(req.PDFData)),
	}, nil
}

// Get retrieves a PDF file by its relative path
func (s *FileSystemStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	fullPath, err := s.resolvePath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewRenderError(ErrCodeStorageFailed, "PDF not found", err)
		}
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to open PDF file", err)
	}

	return file, nil
}

// Delete removes a PDF file
func (s *FileSystemStorage) Delete(ctx context.Context, path string) error {
	select {
	case <-ctx.Done():
		return NewRenderError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	fullPath, err := s.resolvePath(path)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted, not an error
		}
		return NewRenderError(ErrCodeStorageFailed, "failed to delete PDF file", err)
	}

	s.logger.Info("PDF deleted", zap.String("path", path))
	return nil
}

// CleanupOlderThan removes files older than the specified duration
func (s *FileSystemStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	deletedCount := 0

	err := filepath.Walk(s.config.BasePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() || filepath.Ext(path) != ".pdf" {
			return nil
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				deletedCount++
				s.logger.Debug("deleted old PDF", zap.String("path", path))
			}
		}

		return nil
	})

	if err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		return deletedCount, NewRenderError(ErrCodeStorageFailed, "cleanup walk failed", err)
	}

	s.logger.Info("cleanup completed",
		zap.Int("deleted", deletedCount),
		zap.Duration("age", age))

	return deletedCount, nil
}

// GetURL returns the accessible URL for a stored PDF
func (s *FileSystemStorage) GetURL(path string) string {
	cleanPath := filepath.ToSlash(filepath.Clean(path))
	return fmt.Sprintf("%s/%s", s.config.BaseURL, cleanPath)
}

// resolvePath sanitizes a relative path and resolves it under the base
// directory, rejecting traversal attempts.
func (s *FileSystemStorage) resolvePath(path string) (string, error) {
	cleanPath := filepath.Clean(path)
	if filepath.IsAbs(cleanPath) || containsDotDot(path) { // Check raw path for ".."
		s.logger.Warn("blocked potentially malicious path",
			zap.String("path", path),
			zap.String("cleanPath", cleanPath))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}

	fullPath := filepath.Join(s.config.BasePath, cleanPath)

	absBase, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve base path", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve file path", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		s.logger.Warn("path escape attempt blocked",
			zap.String("path", path),
			zap.String("absPath", absPath),
			zap.String("absBase", absBase))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}

	return fullPath, nil
}

// buildFileName names the stored file after the document
func buildFileName(req *StoreRequest) string {
	slug := req.DocTypeSlug
	if slug == "" {
		slug = "document"
	}
	if req.OrderNumber != "" {
		return fmt.Sprintf("%s-%s-%s.pdf", slug, req.OrderNumber, req.DocumentID.String())
	}
	return fmt.Sprintf("%s-%s.pdf", slug, req.DocumentID.String())
}

// containsDotDot checks if a path contains ".." components
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}

// Ensure FileSystemStorage implements PDFStorage
var _ PDFStorage = (*FileSystemStorage)(nil)
