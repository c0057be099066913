package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"mediagate/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRegistry_TryAddEnforcesMax(t *testing.T) {
	reg := NewMemorySessionRegistry()
	ctx := context.Background()

	ok, added, err := reg.TryAdd(ctx, "user-1", "device-1", 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, added)

	ok, added, err = reg.TryAdd(ctx, "user-1", "device-2", 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, added)

	ok, added, err = reg.TryAdd(ctx, "user-1", "device-3", 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, added)

	count, err := reg.Count(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSessionRegistry_ReAddingSameClientIsNotANewSession(t *testing.T) {
	reg := NewMemorySessionRegistry()
	ctx := context.Background()

	ok, added, err := reg.TryAdd(ctx, "user-1", "device-1", 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, added)

	// Re-admission: admitted, but never reported as a new insert.
	for i := 0; i < 4; i++ {
		ok, added, err = reg.TryAdd(ctx, "user-1", "device-1", 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, added)
	}

	count, err := reg.Count(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSessionRegistry_RemoveReportsWhetherPresent(t *testing.T) {
	reg := NewMemorySessionRegistry()
	ctx := context.Background()

	removed, err := reg.Remove(ctx, "user-1", "device-1")
	require.NoError(t, err)
	assert.False(t, removed)

	_, _, err = reg.TryAdd(ctx, "user-1", "device-1", 1)
	require.NoError(t, err)

	removed, err = reg.Remove(ctx, "user-1", "device-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = reg.Remove(ctx, "user-1", "device-1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSessionRegistry_RemoveDropsEmptyUserEntry(t *testing.T) {
	reg := NewMemorySessionRegistry().(*MemorySessionRegistry)
	ctx := context.Background()

	_, _, err := reg.TryAdd(ctx, "user-1", "device-1", 1)
	require.NoError(t, err)
	_, err = reg.Remove(ctx, "user-1", "device-1")
	require.NoError(t, err)

	reg.mu.Lock()
	_, exists := reg.sessions["user-1"]
	reg.mu.Unlock()
	assert.False(t, exists, "empty per-user entry should be pruned")
}

func TestSessionRegistry_ConcurrentTryAddNeverExceedsMax(t *testing.T) {
	reg := NewMemorySessionRegistry()
	ctx := context.Background()
	const max = 3

	var admitted int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			clientID := domain.ClientID(fmt.Sprintf("device-%d", i))
			ok, _, err := reg.TryAdd(ctx, "user-1", clientID, max)
			if err != nil {
				t.Error(err)
				return
			}
			if ok {
				atomic.AddInt64(&admitted, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(max), admitted)

	count, err := reg.Count(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, max, count)
}
