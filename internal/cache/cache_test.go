package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/David1r20/painel-educacional/pkg/contracts/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func dataset(id string) *domain.Dataset {
	return &domain.Dataset{
		ID:       id,
		FileName: id + ".xlsx",
		LoadedAt: time.Now(),
		Students: make([]domain.StudentSummary, 2),
	}
}

func TestDatasetCache(t *testing.T) {
	t.Run("entry lifecycle", func(t *testing.T) {
		cache := NewDatasetCache(time.Hour, 10, time.Minute)
		defer cache.Stop()

		_, found := cache.Lookup("abc")
		assert.False(t, found)

		cache.Set(dataset("abc"))

		ds, found := cache.Lookup("abc")
		require.True(t, found)
		assert.Equal(t, "abc.xlsx", ds.FileName)

		stats := cache.Stats()
		assert.Equal(t, 1, stats.Entries)
		assert.Equal(t, int64(1), stats.HitCount)
		assert.Equal(t, int64(1), stats.MissCount)
		assert.Equal(t, 0.5, stats.HitRatio)
		assert.Equal(t, 3600.0, stats.TTLSeconds)

		cache.Delete("abc")
		_, found = cache.Get("abc")
		assert.False(t, found)
	})

	t.Run("reads do not count as hits", func(t *testing.T) {
		cache := NewDatasetCache(time.Hour, 10, time.Minute)
		defer cache.Stop()

		cache.Set(dataset("abc"))
		for i := 0; i < 5; i++ {
			_, found := cache.Get("abc")
			require.True(t, found)
		}
		_, found := cache.Get("missing")
		assert.False(t, found)

		stats := cache.Stats()
		assert.Zero(t, stats.HitCount)
		assert.Zero(t, stats.MissCount)
		assert.Zero(t, stats.HitRatio)

		_, found = cache.Lookup("abc")
		require.True(t, found)
		assert.Equal(t, 1.0, cache.Stats().HitRatio)
	})

	t.Run("expired entries miss", func(t *testing.T) {
		cache := NewDatasetCache(20*time.Millisecond, 10, time.Hour)
		defer cache.Stop()

		cache.Set(dataset("abc"))
		time.Sleep(40 * time.Millisecond)

		_, found := cache.Get("abc")
		assert.False(t, found)
		_, found = cache.Lookup("abc")
		assert.False(t, found)
		assert.Empty(t, cache.List())
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		cache := NewDatasetCache(0, 10, time.Hour)
		defer cache.Stop()

		cache.Set(dataset("abc"))
		_, found := cache.Get("abc")
		assert.True(t, found)
	})

	t.Run("oldest entry is evicted when full", func(t *testing.T) {
		cache := NewDatasetCache(time.Hour, 2, time.Hour)
		defer cache.Stop()

		cache.Set(dataset("a"))
		time.Sleep(time.Millisecond)
		cache.Set(dataset("b"))
		time.Sleep(time.Millisecond)
		cache.Set(dataset("c"))

		_, found := cache.Get("a")
		assert.False(t, found)
		_, found = cache.Get("c")
		assert.True(t, found)
		assert.Equal(t, 2, cache.Len())
		assert.Equal(t, int64(1), cache.Stats().Evictions)
	})

	t.Run("replacing an entry does not evict", func(t *testing.T) {
		cache := NewDatasetCache(time.Hour, 2, time.Hour)
		defer cache.Stop()

		cache.Set(dataset("a"))
		cache.Set(dataset("b"))
		cache.Set(dataset("b"))

		assert.Equal(t, 2, cache.Len())
		assert.Equal(t, int64(0), cache.Stats().Evictions)
	})

	t.Run("zero size stores nothing", func(t *testing.T) {
		cache := NewDatasetCache(time.Hour, 0, time.Hour)
		defer cache.Stop()

		cache.Set(dataset("a"))
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("sweep removes expired entries", func(t *testing.T) {
		cache := NewDatasetCache(10*time.Millisecond, 10, 5*time.Millisecond)
		defer cache.Stop()

		cache.Set(dataset("a"))
		assert.Eventually(t, func() bool { return cache.Len() == 0 }, time.Second, 5*time.Millisecond)
	})
}

func TestDatasetCache_List(t *testing.T) {
	cache := NewDatasetCache(time.Hour, 10, time.Hour)
	defer cache.Stop()

	older := dataset("older")
	older.LoadedAt = time.Now().Add(-time.Minute)
	cache.Set(older)
	cache.Set(dataset("newer"))

	list := cache.List()
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].ID)
	assert.Equal(t, "older", list[1].ID)
	assert.True(t, list[0].Cached)
	assert.Equal(t, 2, list[0].Students)
}

func TestDatasetCache_Concurrent(t *testing.T) {
	cache := NewDatasetCache(time.Hour, 50, time.Hour)
	defer cache.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("ds-%d", i%5)
			cache.Set(dataset(id))
			cache.Get(id)
			cache.Lookup(id)
			cache.Stats()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, cache.Len())
	cache.Stop()
}
