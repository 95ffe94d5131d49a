// Package apisession provides a generic, thread-safe store for per-client
// state held by the API, keyed by an opaque session ID.
package apisession

import (
	"sync"
	"time"
)

// cleanupInterval is how many accesses trigger a lazy eviction pass.
const cleanupInterval = 100

type entry[T any] struct {
	value      *T
	lastAccess time.Time
}

// Store maps session IDs to values and evicts those not touched for
// longer than the TTL.
type Store[T any] struct {
	mu       sync.Mutex
	entries  map[string]*entry[T]
	ttl      time.Duration
	newFn    func() *T
	onEvict  func(id string, v *T)
	accesses int
	now      func() time.Time
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithFactory makes Get create missing entries with fn.
func WithFactory[T any](fn func() *T) Option[T] {
	return func(s *Store[T]) { s.newFn = fn }
}

// WithEvictHook is called, outside the lock, for every evicted entry.
func WithEvictHook[T any](fn func(id string, v *T)) Option[T] {
	return func(s *Store[T]) { s.onEvict = fn }
}

// New creates a Store that evicts entries inactive longer than ttl.
func New[T any](ttl time.Duration, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		entries: make(map[string]*entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get returns the value for id, creating it with the factory if there is
// one. Without a factory a missing id yields nil.
func (s *Store[T]) Get(id string) *T {
	v, ok := s.Lookup(id)
	if ok || s.newFn == nil {
		return v
	}
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		e = &entry[T]{value: s.newFn()}
		s.entries[id] = e
	}
	e.lastAccess = s.now()
	s.mu.Unlock()
	return e.value
}

// Lookup returns the value for id and refreshes its access time.
func (s *Store[T]) Lookup(id string) (*T, bool) {
	s.mu.Lock()
	s.accesses++
	var evicted map[string]*T
	if s.accesses%cleanupInterval == 0 {
		evicted = s.cleanupLocked()
	}
	e, ok := s.entries[id]
	if ok {
		e.lastAccess = s.now()
	}
	s.mu.Unlock()

	s.notify(evicted)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Put stores v under id, replacing any previous value.
func (s *Store[T]) Put(id string, v *T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = &entry[T]{value: v, lastAccess: s.now()}
}

// Delete removes id. It reports whether the entry existed.
func (s *Store[T]) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[id]
	delete(s.entries, id)
	return ok
}

// Cleanup evicts all entries that have been inactive longer than the TTL.
func (s *Store[T]) Cleanup() {
	s.mu.Lock()
	evicted := s.cleanupLocked()
	s.mu.Unlock()
	s.notify(evicted)
}

func (s *Store[T]) cleanupLocked() map[string]*T {
	cutoff := s.now().Add(-s.ttl)
	var evicted map[string]*T
	for id, e := range s.entries {
		if e.lastAccess.Before(cutoff) {
			if evicted == nil {
				evicted = make(map[string]*T)
			}
			evicted[id] = e.value
			delete(s.entries, id)
		}
	}
	return evicted
}

func (s *Store[T]) notify(evicted map[string]*T) {
	if s.onEvict == nil {
		return
	}
	for id, v := range evicted {
		s.onEvict(id, v)
	}
}

// Range calls fn for every entry until fn returns false. The store is
// locked for the duration.
func (s *Store[T]) Range(fn func(id string, v *T) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if !fn(id, e.value) {
			return
		}
	}
}

// Len returns the number of live entries.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
