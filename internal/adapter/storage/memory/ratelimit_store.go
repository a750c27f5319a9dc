package memory

import (
	"context"
	"sync"
	"time"

	"vishwas-ledger/internal/core/ports"
)

type window struct {
	id    int64
	count int64
}

// RateLimitStore implements ports.RateLimitStore with per-key fixed windows.
// Counters reset when a request lands in a newer window.
type RateLimitStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewRateLimitStore creates an in-memory rate limit store.
func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{windows: make(map[string]*window), now: time.Now}
}

// Allow counts one request against key.
func (s *RateLimitStore) Allow(_ context.Context, key string, limit int64, size time.Duration) (*ports.RateLimitResult, error) {
	secs := int64(size / time.Second)
	if secs <= 0 {
		secs = 1
	}
	id := s.now().Unix() / secs

	s.mu.Lock()
	w, ok := s.windows[key]
	if !ok || w.id != id {
		w = &window{id: id}
		s.windows[key] = w
	}
	w.count++
	count := w.count
	s.mu.Unlock()

	return &ports.RateLimitResult{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(limit-count, 0),
		ResetAt:   time.Unix((id+1)*secs, 0),
	}, nil
}
