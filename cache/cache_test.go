package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

// value returns a loader yielding v and counting its calls.
func value[V any](v V, calls *int) func() (V, error) {
	return func() (V, error) {
		*calls++
		return v, nil
	}
}

func TestCacheGetOrLoad(t *testing.T) {
	c := New[string, int](10)
	calls := 0

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("a", value(1, &calls))
		if err != nil || v != 1 {
			t.Fatalf("GetOrLoad(a) = (%d, %v), want (1, nil)", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	calls := 0
	c.GetOrLoad("a", value(1, &calls))
	c.GetOrLoad("b", value(2, &calls))
	c.GetOrLoad("a", value(1, &calls)) // a is now most recent
	c.GetOrLoad("c", value(3, &calls))

	if calls != 3 {
		t.Fatalf("load called %d times, want 3", calls)
	}
	c.GetOrLoad("a", value(1, &calls))
	if calls != 3 {
		t.Error("a should still be cached")
	}
	c.GetOrLoad("b", value(2, &calls))
	if calls != 4 {
		t.Error("b should have been evicted")
	}
	if c.Stats().Evicts != 2 {
		t.Errorf("Evicts = %d, want 2", c.Stats().Evicts)
	}
}

func TestCacheGetOrLoadRemembersErrors(t *testing.T) {
	c := New[string, string](10)
	calls := 0
	boom := errors.New("boom")
	load := func() (string, error) {
		calls++
		return "", boom
	}

	for i := 0; i < 3; i++ {
		if _, err := c.GetOrLoad("expr", load); !errors.Is(err, boom) {
			t.Fatalf("GetOrLoad() error = %v, want boom", err)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}
}

func TestCacheStats(t *testing.T) {
	c := New[int, int](0)
	if c.Stats().Capacity != DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", c.Stats().Capacity, DefaultCapacity)
	}
	if c.Stats().HitRate() != 0 {
		t.Error("HitRate before lookups should be 0")
	}

	calls := 0
	c.GetOrLoad(1, value(1, &calls))
	c.GetOrLoad(1, value(1, &calls))

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.HitRate() != 0.5 || s.Size != 1 {
		t.Errorf("Stats = %+v, HitRate %v", s, s.HitRate())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New[string, int](50)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%80)
				_, _ = c.GetOrLoad(key, func() (int, error) { return i, nil })
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}
