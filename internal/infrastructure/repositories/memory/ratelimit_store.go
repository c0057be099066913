package memory

import (
	"context"
	"sync"
	"time"

	"mediagate/internal/core/ports"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryRateLimitStore keeps fixed-window counters in process memory.
// Expired windows are pruned opportunistically once the map grows past a
// threshold, so rejected floods don't leak entries forever.
type MemoryRateLimitStore struct {
	windows map[string]*window
	mu      sync.Mutex
	now     func() time.Time
}

const pruneThreshold = 10000

func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

var _ ports.RateLimitStore = (*MemoryRateLimitStore)(nil)

func (s *MemoryRateLimitStore) Incr(ctx context.Context, key string, windowDur time.Duration, max int) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	w, exists := s.windows[key]
	if !exists || !now.Before(w.resetAt) {
		if len(s.windows) >= pruneThreshold {
			s.pruneLocked(now)
		}
		w = &window{count: 1, resetAt: now.Add(windowDur)}
		s.windows[key] = w
		return w.count, w.resetAt, nil
	}

	// Cap the count one past the limit; the window still resets on time but
	// a rejected flood doesn't grow the counter unboundedly.
	if w.count <= max {
		w.count++
	}
	return w.count, w.resetAt, nil
}

func (s *MemoryRateLimitStore) pruneLocked(now time.Time) {
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
		}
	}
}
