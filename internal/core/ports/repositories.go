package ports

import (
	"context"
	"time"

	"mediagate/internal/core/domain"
)

// SessionRegistry holds the set of active playback clients per user.
// TryAdd must be atomic: the count check and the insert happen under the
// same critical section so concurrent admissions can never exceed max.
type SessionRegistry interface {
	// TryAdd admits the client if the user is under max. added reports
	// whether a new entry was inserted; an already registered client is
	// admitted without one.
	TryAdd(ctx context.Context, userID domain.UserID, clientID domain.ClientID, max int) (admitted, added bool, err error)
	// Remove reports whether the client was actually registered. Removing a
	// non-member is a no-op, not an error.
	Remove(ctx context.Context, userID domain.UserID, clientID domain.ClientID) (bool, error)
	Count(ctx context.Context, userID domain.UserID) (int, error)
}

// RateLimitStore owns the fixed-window counters. Incr creates a window on
// first observation (count=1) and otherwise increments atomically; counts
// already over max are capped rather than grown unboundedly.
type RateLimitStore interface {
	Incr(ctx context.Context, key string, window time.Duration, max int) (count int, resetAt time.Time, err error)
}
