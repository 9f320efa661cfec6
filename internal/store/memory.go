package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store for tests and local development. Expiry is
// checked lazily on read.
type Memory struct {
	mu  sync.Mutex
	m   map[string]entry
	now func() time.Time
}

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{m: make(map[string]entry), now: time.Now}
}

// SetClock overrides the expiry clock. Test hook.
func (s *Memory) SetClock(now func() time.Time) { s.now = now }

func (s *Memory) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[key]
	if !ok {
		return "", ErrNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.m, key)
		return "", ErrNotFound
	}
	return e.value, nil
}

func (s *Memory) Put(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = s.entryFor(value, ttl)
	return nil
}

func (s *Memory) PutIfAbsent(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.m[key]; ok {
		if e.expiresAt.IsZero() || s.now().Before(e.expiresAt) {
			return false, nil
		}
	}
	s.m[key] = s.entryFor(value, ttl)
	return true, nil
}

func (s *Memory) entryFor(value string, ttl time.Duration) entry {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	return e
}
