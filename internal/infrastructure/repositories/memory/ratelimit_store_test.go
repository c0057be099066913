package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRateLimitStore(start time.Time) (*MemoryRateLimitStore, *time.Time) {
	current := start
	store := NewMemoryRateLimitStore()
	store.now = func() time.Time { return current }
	return store, &current
}

func TestRateLimitStore_CountsWithinWindow(t *testing.T) {
	store, _ := newTestRateLimitStore(time.Unix(1000, 0))
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		count, resetAt, err := store.Incr(ctx, "api:1.2.3.4", time.Minute, 10)
		require.NoError(t, err)
		assert.Equal(t, i, count)
		assert.Equal(t, time.Unix(1060, 0), resetAt)
	}
}

func TestRateLimitStore_WindowResetStartsFreshCount(t *testing.T) {
	store, clock := newTestRateLimitStore(time.Unix(1000, 0))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := store.Incr(ctx, "api:1.2.3.4", time.Minute, 3)
		require.NoError(t, err)
	}

	// Advance past the window boundary.
	*clock = time.Unix(1061, 0)

	count, resetAt, err := store.Incr(ctx, "api:1.2.3.4", time.Minute, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, time.Unix(1121, 0), resetAt)
}

func TestRateLimitStore_CountCapsOnePastMax(t *testing.T) {
	store, _ := newTestRateLimitStore(time.Unix(1000, 0))
	ctx := context.Background()

	var count int
	var err error
	for i := 0; i < 50; i++ {
		count, _, err = store.Incr(ctx, "api:1.2.3.4", time.Minute, 3)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, count)
}

func TestRateLimitStore_KeysAreIndependent(t *testing.T) {
	store, _ := newTestRateLimitStore(time.Unix(1000, 0))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := store.Incr(ctx, "api:1.2.3.4", time.Minute, 3)
		require.NoError(t, err)
	}

	count, _, err := store.Incr(ctx, "auth:1.2.3.4", time.Minute, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRateLimitStore_PrunesExpiredWindows(t *testing.T) {
	store, clock := newTestRateLimitStore(time.Unix(1000, 0))
	ctx := context.Background()

	for i := 0; i < pruneThreshold; i++ {
		_, _, err := store.Incr(ctx, fmt.Sprintf("api:host-%d", i), time.Minute, 3)
		require.NoError(t, err)
	}
	require.Equal(t, pruneThreshold, len(store.windows))

	// All windows expired; the next insert triggers a prune.
	*clock = time.Unix(2000, 0)
	_, _, err := store.Incr(ctx, "api:fresh", time.Minute, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, len(store.windows))
}
