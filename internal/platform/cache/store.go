package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is an in-memory map with a sliding TTL: every hit pushes the
// expiry forward. Evicted values are handed to the OnEvict hook.
type Store[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	ttl     time.Duration
	clock   clock.Clock
	onEvict func(key string, value V)
}

type Option[V any] func(*Store[V])

func WithClock[V any](clk clock.Clock) Option[V] {
	return func(s *Store[V]) {
		if clk != nil {
			s.clock = clk
		}
	}
}

func WithOnEvict[V any](fn func(key string, value V)) Option[V] {
	return func(s *Store[V]) {
		s.onEvict = fn
	}
}

func NewStore[V any](ttl time.Duration, opts ...Option[V]) *Store[V] {
	s := &Store[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		clock:   clock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	now := s.clock.Now()
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		return zero, false
	}
	if s.expired(e, now) {
		delete(s.entries, key)
		s.mu.Unlock()
		s.evict(key, e.value)
		return zero, false
	}
	e.expiresAt = s.deadline(now)
	s.entries[key] = e
	s.mu.Unlock()

	return e.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	s.mu.Lock()
	prev, replaced := s.entries[key]
	s.entries[key] = entry[V]{
		value:     value,
		expiresAt: s.deadline(s.clock.Now()),
	}
	s.mu.Unlock()

	if replaced {
		s.evict(key, prev.value)
	}
}

func (s *Store[V]) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	e, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()

	if ok {
		s.evict(key, e.value)
	}
}

func (s *Store[V]) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	removed := make(map[string]V)
	s.mu.Lock()
	for key, e := range s.entries {
		if strings.HasPrefix(key, prefix) {
			removed[key] = e.value
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()

	for key, value := range removed {
		s.evict(key, value)
	}
}

// Clear drops every entry.
func (s *Store[V]) Clear(_ context.Context) {
	s.mu.Lock()
	removed := s.entries
	s.entries = make(map[string]entry[V])
	s.mu.Unlock()

	for key, e := range removed {
		s.evict(key, e.value)
	}
}

// Sweep drops every expired entry and reports how many were removed.
func (s *Store[V]) Sweep(_ context.Context) int {
	now := s.clock.Now()
	removed := make(map[string]V)

	s.mu.Lock()
	for key, e := range s.entries {
		if s.expired(e, now) {
			removed[key] = e.value
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()

	for key, value := range removed {
		s.evict(key, value)
	}
	return len(removed)
}

func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store[V]) expired(e entry[V], now time.Time) bool {
	return s.ttl > 0 && !e.expiresAt.After(now)
}

func (s *Store[V]) deadline(now time.Time) time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(s.ttl)
}

func (s *Store[V]) evict(key string, value V) {
	if s.onEvict != nil {
		s.onEvict(key, value)
	}
}
