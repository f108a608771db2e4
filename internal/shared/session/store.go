// Package session keeps short-lived per-visitor state such as quiz and wizard progress.
// Sessions live in memory only and expire after an idle TTL.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

type entry[T any] struct {
	value   T
	touched time.Time
}

// Store is a concurrency-safe TTL map of session ID to state.
type Store[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*entry[T]
}

// NewStore creates a store whose entries expire after ttl without access.
// A nil now uses time.Now.
func NewStore[T any](ttl time.Duration, now func() time.Time) *Store[T] {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store[T]{ttl: ttl, now: now, entries: make(map[string]*entry[T])}
}

// Create stores value under a new random ID.
func (s *Store[T]) Create(value T) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.entries[id] = &entry[T]{value: value, touched: s.now()}
	return id
}

// Get returns the session value and refreshes its TTL.
func (s *Store[T]) Get(id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.liveLocked(id)
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	e.touched = s.now()
	return e.value, nil
}

// Update applies fn to the stored value under the store lock and saves the result.
// If fn returns an error the stored value is left unchanged.
func (s *Store[T]) Update(id string, fn func(T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.liveLocked(id)
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	next, err := fn(e.value)
	if err != nil {
		return e.value, err
	}
	e.value = next
	e.touched = s.now()
	return next, nil
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (s *Store[T]) Delete(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.entries)
}

func (s *Store[T]) liveLocked(id string) (*entry[T], bool) {
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.touched) > s.ttl {
		delete(s.entries, id)
		return nil, false
	}
	return e, true
}

func (s *Store[T]) sweepLocked() {
	now := s.now()
	for id, e := range s.entries {
		if now.Sub(e.touched) > s.ttl {
			delete(s.entries, id)
		}
	}
}
