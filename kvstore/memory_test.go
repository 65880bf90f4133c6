package kvstore_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sweetshoplabs/sweetshop-web/kvstore"
)

func TestMemory_SetGetDelete(t *testing.T) {
	store := kvstore.NewMemory()

	_, ok := store.Get("accessToken")
	require.False(t, ok)

	store.Set("accessToken", "abc123")
	value, ok := store.Get("accessToken")
	require.True(t, ok)
	require.Equal(t, "abc123", value)

	store.Set("accessToken", "def456")
	value, ok = store.Get("accessToken")
	require.True(t, ok)
	require.Equal(t, "def456", value)

	store.Delete("accessToken")
	_, ok = store.Get("accessToken")
	require.False(t, ok)
}

func TestMemory_DeleteMissingKeyIsNoop(t *testing.T) {
	store := kvstore.NewMemory()
	store.Delete("never-set")

	_, ok := store.Get("never-set")
	require.False(t, ok)
}

// TestMemory_ConcurrentAccess exercises the store from multiple goroutines.
func TestMemory_ConcurrentAccess(t *testing.T) {
	store := kvstore.NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Set("key", "value")
			store.Get("key")
			store.Delete("key")
		}()
	}
	wg.Wait()
}
