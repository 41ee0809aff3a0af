package storage

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryObjectStorage is an in-memory ObjectStorage used for development
// and tests, until a real S3-compatible backend is configured.
type MemoryObjectStorage struct {
	// BaseURL is the base URL used when generating upload/download URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryObjectStorage creates a new MemoryObjectStorage
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Ensure MemoryObjectStorage implements ObjectStorage
var _ ObjectStorage = (*MemoryObjectStorage)(nil)

// Upload stores data under the given key
func (s *MemoryObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[storageKey] = buf
	return nil
}

// Download returns the stored data for a key
func (s *MemoryObjectStorage) Download(ctx context.Context, storageKey string) ([]byte, error) {
	if storageKey == "" {
		return nil, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[storageKey]
	if !ok {
		return nil, errors.New("object not found: " + storageKey)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// DeleteObject removes an object; deleting a missing key is not an error
func (s *MemoryObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// ObjectExists reports whether an object is stored under the key
func (s *MemoryObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

// GenerateDownloadURL returns a fake presigned download URL
func (s *MemoryObjectStorage) GenerateDownloadURL(
	ctx context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/download/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)
	return url, expiresAt, nil
}

// GenerateUploadURL returns a fake presigned upload URL
func (s *MemoryObjectStorage) GenerateUploadURL(
	ctx context.Context,
	storageKey, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/upload/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)
	return url, expiresAt, nil
}

// Len returns the number of stored objects
func (s *MemoryObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
