package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/elyase/dexmetadata/app/config"
	"github.com/elyase/dexmetadata/app/metadata"
	"github.com/elyase/dexmetadata/common"
)

func testPool(i int) metadata.Pool {
	return metadata.Pool{
		Address: testAddress(i),
		Token0: metadata.Token{
			Address:  fmt.Sprintf("0x%040x", 1000+i),
			Name:     fmt.Sprintf("Token A%d", i),
			Symbol:   fmt.Sprintf("TKA%d", i),
			Decimals: 18,
		},
		Token1: metadata.Token{
			Address:  fmt.Sprintf("0x%040x", 2000+i),
			Name:     fmt.Sprintf("Token B%d", i),
			Symbol:   fmt.Sprintf("TKB%d", i),
			Decimals: 6,
		},
	}
}

func testAddress(i int) string {
	return fmt.Sprintf("0x%040x", i)
}

func newMemoryStore(t *testing.T, maxEntries int) *Store {
	t.Helper()

	store, err := NewStore(common.NewTestLogger(t), &config.CacheConfig{MaxEntries: maxEntries})
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, store.Close()) })

	return store
}

func TestStorePutGet(t *testing.T) {
	store := newMemoryStore(t, 100)

	pool := testPool(1)
	store.Put(pool.Address, pool)

	got, found := store.Get(pool.Address)
	require.True(t, found)
	require.Equal(t, pool, got)

	_, found = store.Get(testAddress(99))
	require.False(t, found)

	require.Equal(t, 1, store.Size())
}

func TestStoreAccessAccounting(t *testing.T) {
	store := newMemoryStore(t, 100)

	pool := testPool(1)

	// A put counts as an access.
	store.Put(pool.Address, pool)

	e, found := store.Entry(pool.Address)
	require.True(t, found)
	require.EqualValues(t, 1, e.AccessCount)

	store.Get(pool.Address)
	store.Get(pool.Address)

	// An overwrite also counts.
	store.Put(pool.Address, pool)

	e, found = store.Entry(pool.Address)
	require.True(t, found)
	require.EqualValues(t, 4, e.AccessCount)
	require.Equal(t, 1, store.Size())
}

func TestStoreGetMany(t *testing.T) {
	store := newMemoryStore(t, 100)

	for i := 1; i <= 3; i++ {
		pool := testPool(i)
		store.Put(pool.Address, pool)
	}

	result := store.GetMany([]string{testAddress(1), testAddress(3), testAddress(42)})

	require.Len(t, result, 2)
	require.Contains(t, result, testAddress(1))
	require.Contains(t, result, testAddress(3))
	require.NotContains(t, result, testAddress(42))

	// Duplicate occurrences each count as an access.
	store.GetMany([]string{testAddress(1), testAddress(1)})

	e, found := store.Entry(testAddress(1))
	require.True(t, found)
	require.EqualValues(t, 4, e.AccessCount)
}

func TestStoreEvictionThreshold(t *testing.T) {
	const maxEntries = 100

	store := newMemoryStore(t, maxEntries)

	for i := 0; i < maxEntries; i++ {
		pool := testPool(i)
		store.Put(pool.Address, pool)
	}

	require.Equal(t, maxEntries, store.Size())

	// Crossing the budget removes max(1, maxEntries/4) entries in one sweep.
	overflow := testPool(maxEntries)
	store.Put(overflow.Address, overflow)

	require.Equal(t, maxEntries+1-maxEntries/4, store.Size())
}

func TestStoreEvictionPicksLowestScore(t *testing.T) {
	store := newMemoryStore(t, 4)

	base := time.Now()

	// A is stale beyond the 30-day recency horizon, so its score falls back
	// to frequency alone and it must be the single entry evicted.
	store.now = func() time.Time { return base.Add(-35 * 24 * time.Hour) }
	store.Put(testAddress(1), testPool(1)) // A

	store.now = func() time.Time { return base }

	store.Put(testAddress(2), testPool(2)) // B
	store.Put(testAddress(3), testPool(3)) // C
	store.Put(testAddress(4), testPool(4)) // D

	store.Get(testAddress(2))
	store.Get(testAddress(3))
	store.Get(testAddress(4))

	store.Put(testAddress(5), testPool(5)) // E triggers eviction

	require.Equal(t, 4, store.Size())

	_, found := store.Entry(testAddress(1))
	require.False(t, found, "A must be evicted")

	for i := 2; i <= 5; i++ {
		_, found := store.Entry(testAddress(i))
		require.True(t, found, "entry %d must survive", i)
	}
}

func TestStoreStats(t *testing.T) {
	store := newMemoryStore(t, 10)

	for i := 1; i <= 6; i++ {
		pool := testPool(i)
		store.Put(pool.Address, pool)
	}

	// Give entry 3 the highest access count.
	for i := 0; i < 5; i++ {
		store.Get(testAddress(3))
	}

	stats := store.Stats()

	require.Equal(t, 6, stats.Entries)
	require.Equal(t, 10, stats.MaxEntries)
	require.InDelta(t, 60.0, stats.UsagePercent, 0.01)
	require.EqualValues(t, 6*config.ApproxPoolSizeBytes, stats.ApproxSizeBytes)
	require.False(t, stats.PersistEnabled)
	require.InDelta(t, 11.0/6.0, stats.AvgAccessCount, 0.01)

	require.Len(t, stats.TopAccessed, 5)
	require.Equal(t, testAddress(3), stats.TopAccessed[0].Address)
	require.EqualValues(t, 6, stats.TopAccessed[0].AccessCount)
}

func TestStoreClear(t *testing.T) {
	store := newMemoryStore(t, 10)

	store.Put(testAddress(1), testPool(1))
	require.Equal(t, 1, store.Size())

	store.Clear()
	require.Equal(t, 0, store.Size())

	_, found := store.Get(testAddress(1))
	require.False(t, found)
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := newMemoryStore(t, 1000)

	var wg sync.WaitGroup

	for worker := 0; worker < 8; worker++ {
		worker := worker

		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := 0; i < 100; i++ {
				idx := worker*100 + i
				store.Put(testAddress(idx), testPool(idx))
				store.Get(testAddress(idx))
				store.GetMany([]string{testAddress(idx), testAddress(0)})
				store.Stats()
			}
		}()
	}

	wg.Wait()

	require.Equal(t, 800, store.Size())
}

func TestStoreRejectsZeroBudget(t *testing.T) {
	_, err := NewStore(common.NewTestLogger(t), &config.CacheConfig{})
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestStoreCloseIdempotent(t *testing.T) {
	store, err := NewStore(common.NewTestLogger(t), &config.CacheConfig{MaxEntries: 10})
	require.NoError(t, err)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
