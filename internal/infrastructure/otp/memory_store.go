// Package otp holds the process-local one-time-code store.
package otp

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	code      int
	expiresAt time.Time // zero = never
}

// MemoryStore is a mutex-guarded map from identity key to the latest code.
// Concurrent Puts for one key leave exactly the last written code active.
type MemoryStore struct {
	mu    sync.Mutex
	codes map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore returns an empty store. A ttl of zero keeps codes until they
// are replaced by the next issuance.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		codes: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, key string, code int) error {
	e := entry{code: code}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.codes[key] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.codes[key]
	if !ok {
		return 0, false, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.codes, key)
		return 0, false, nil
	}
	return e.code, true, nil
}
