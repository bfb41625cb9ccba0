package ratelimit_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediflow/contact-api/pkg/ratelimit"
)

func TestMemory_Admit_WindowLimit(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemory(5, time.Minute)
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		ok, err := store.Admit(ctx, "1.2.3.4", now)
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be admitted", i)
	}

	// Sixth attempt inside the same window is denied.
	ok, err := store.Admit(ctx, "1.2.3.4", now.Add(30*time.Second))
	require.NoError(t, err)
	assert.False(t, ok)

	// The denied attempt still counted: a seventh is denied too.
	ok, err = store.Admit(ctx, "1.2.3.4", now.Add(31*time.Second))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_Admit_WindowReset(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemory(5, time.Minute)
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := store.Admit(ctx, "1.2.3.4", now)
		require.NoError(t, err)
	}

	// Once the window has elapsed, the counter resets and admits again.
	ok, err := store.Admit(ctx, "1.2.3.4", now.Add(time.Minute+time.Second))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemory_Admit_KeysIndependent(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemory(1, time.Minute)
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	ok, err := store.Admit(ctx, "1.2.3.4", now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Admit(ctx, "1.2.3.4", now)
	require.NoError(t, err)
	assert.False(t, ok)

	// A different caller gets its own window.
	ok, err = store.Admit(ctx, "5.6.7.8", now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemory_Admit_EqualityAdmits(t *testing.T) {
	t.Parallel()

	// count == limit admits; only strictly exceeding denies.
	store := ratelimit.NewMemory(3, time.Minute)
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	var last bool
	for i := 0; i < 3; i++ {
		ok, err := store.Admit(ctx, "k", now)
		require.NoError(t, err)
		last = ok
	}
	assert.True(t, last, "attempt equal to the limit must be admitted")

	ok, err := store.Admit(ctx, "k", now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_Admit_Concurrent(t *testing.T) {
	t.Parallel()

	const limit = 5
	store := ratelimit.NewMemory(limit, time.Minute)
	now := time.Now()
	ctx := context.Background()

	var admitted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Admit(ctx, "shared", now)
			assert.NoError(t, err)
			if ok {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	// Concurrent callers must never both observe a stale count.
	assert.Equal(t, int64(limit), admitted.Load())
}

func TestMemory_Cleanup(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemory(1, 10*time.Millisecond,
		ratelimit.WithCleanupInterval(5*time.Millisecond))
	defer store.Close()

	ctx := context.Background()
	_, err := store.Admit(ctx, "k", time.Now())
	require.NoError(t, err)

	// After the window elapses the entry is evicted and the key admits
	// again from a fresh window.
	time.Sleep(30 * time.Millisecond)

	ok, err := store.Admit(ctx, "k", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)
}
