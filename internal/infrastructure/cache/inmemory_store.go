package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// InMemoryStore implements Store with a mutex-guarded map.
// State is per process, so replicas do not share cached advice.
type InMemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]entry
	maxEntries int
	now        func() time.Time
}

// InMemoryOption configures an InMemoryStore
type InMemoryOption func(*InMemoryStore)

// WithClock overrides the time source used for expiry
func WithClock(now func() time.Time) InMemoryOption {
	return func(s *InMemoryStore) {
		s.now = now
	}
}

// WithMaxEntries bounds the store; expired entries are purged first, then
// the entry closest to expiry is dropped.
func WithMaxEntries(n int) InMemoryOption {
	return func(s *InMemoryStore) {
		s.maxEntries = n
	}
}

// NewInMemoryStore creates an empty in-memory store
func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		entries:    make(map[string]entry),
		maxEntries: 1024,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if s.expired(e, s.now()) {
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && s.expired(cur, s.now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

func (s *InMemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now()
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evict(now)
	}
	s.entries[key] = e
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *InMemoryStore) Close() error {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
	return nil
}

// evict must be called with mu held
func (s *InMemoryStore) evict(now time.Time) {
	for k, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, k)
		}
	}
	if len(s.entries) < s.maxEntries {
		return
	}

	var victim string
	var victimAt time.Time
	for k, e := range s.entries {
		at := e.expiresAt
		if at.IsZero() {
			at = now.Add(1 << 62)
		}
		if victim == "" || at.Before(victimAt) {
			victim, victimAt = k, at
		}
	}
	delete(s.entries, victim)
}

func (s *InMemoryStore) expired(e entry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

var _ Store = (*InMemoryStore)(nil)
