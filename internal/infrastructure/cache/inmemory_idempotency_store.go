package cache

import (
	"context"
	"sync"
	"time"

	"github.com/promoshop/backend/internal/domain/shared"
)

// InMemoryIdempotencyStore keeps processed event ids in a map with per-key
// expiry. Good enough for a single instance or tests; multi-instance
// deployments need a shared store behind the same interface.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	expiry    map[string]time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore builds the store and starts a janitor
// goroutine that sweeps expired keys every few minutes.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		expiry:   make(map[string]time.Time),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// MarkProcessed records the event id with the given TTL. It reports true
// when the id was not yet present, false when it is a live duplicate. An
// expired key counts as new and gets a fresh deadline.
func (s *InMemoryIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if deadline, exists := s.expiry[eventID]; exists && time.Now().Before(deadline) {
		return false, nil
	}

	s.expiry[eventID] = time.Now().Add(ttl)
	return true, nil
}

// IsProcessed reports whether the event id is present and not expired.
func (s *InMemoryIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deadline, exists := s.expiry[eventID]
	if !exists || time.Now().After(deadline) {
		return false, nil
	}
	return true, nil
}

// Close stops the janitor. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for eventID, deadline := range s.expiry {
		if now.After(deadline) {
			delete(s.expiry, eventID)
		}
	}
}

// Size reports the number of tracked ids, expired or not.
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.expiry)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
