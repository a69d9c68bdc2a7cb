// Package cache holds the Redis client setup and the short-lived key stores
// built on it.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/kkambbaki/backend/internal/domain/shared"
)

// MemoryStore is a process-local IdempotencyStore for single instance
// deployments and tests.
type MemoryStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time

	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemoryStore creates the store and starts sweeping expired keys every interval
func NewMemoryStore(interval time.Duration) *MemoryStore {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	s := &MemoryStore{
		expires: make(map[string]time.Time),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	s.wg.Add(1)
	go s.sweepLoop(interval)
	return s
}

// MarkProcessed implements shared.IdempotencyStore
func (s *MemoryStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if exp, ok := s.expires[eventID]; ok && now.Before(exp) {
		return false, nil
	}
	s.expires[eventID] = now.Add(ttl)
	return true, nil
}

// IsProcessed implements shared.IdempotencyStore
func (s *MemoryStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expires[eventID]
	return ok && s.now().Before(exp), nil
}

// Len returns the number of tracked keys, expired or not
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expires)
}

// Close stops the sweeper. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
	return nil
}

func (s *MemoryStore) sweepLoop(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, exp := range s.expires {
		if !now.Before(exp) {
			delete(s.expires, id)
		}
	}
}

var _ shared.IdempotencyStore = (*MemoryStore)(nil)
