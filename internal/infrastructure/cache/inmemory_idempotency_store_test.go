package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("claims a new key", func(t *testing.T) {
		fresh, err := store.MarkProcessed(ctx, "key-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)
	})

	t.Run("rejects a second claim on the same key", func(t *testing.T) {
		fresh, err := store.MarkProcessed(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)

		fresh, err = store.MarkProcessed(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		assert.False(t, fresh)
	})

	t.Run("allows a new claim after expiry", func(t *testing.T) {
		fresh, err := store.MarkProcessed(ctx, "key-3", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, fresh)

		time.Sleep(20 * time.Millisecond)

		fresh, err = store.MarkProcessed(ctx, "key-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)
	})

	t.Run("exactly one concurrent claimant wins", func(t *testing.T) {
		var wg sync.WaitGroup
		wins := make(chan bool, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				fresh, err := store.MarkProcessed(ctx, "key-race", time.Hour)
				require.NoError(t, err)
				wins <- fresh
			}()
		}
		wg.Wait()
		close(wins)

		winners := 0
		for w := range wins {
			if w {
				winners++
			}
		}
		assert.Equal(t, 1, winners)
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("unknown key is not processed", func(t *testing.T) {
		processed, err := store.IsProcessed(ctx, "unknown")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("claimed key is processed", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "claimed", time.Hour)
		require.NoError(t, err)

		processed, err := store.IsProcessed(ctx, "claimed")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("expired key reads as not processed", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "short-lived", 10*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, "short-lived")
		require.NoError(t, err)
		assert.False(t, processed)
	})
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	_, err := store.MarkProcessed(ctx, "a", 10*time.Millisecond)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, "b", time.Hour)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	require.NoError(t, store.Close())
	// Double close must not panic
	require.NoError(t, store.Close())
}
