package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestCache_GetAdd(t *testing.T) {
	c := New[string, int](3)
	c.Add("a", 1)
	c.Add("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if _, ok := c.Get("z"); ok {
		t.Error("Get(z) should miss")
	}

	c.Add("a", 10)
	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("Get(a) = %d; want 10 after update", v)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d; want 2", c.Len())
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Get("a")
	c.Add("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should still be cached")
	}
	if s := c.Stats(); s.Evicts != 1 {
		t.Errorf("Evicts = %d; want 1", s.Evicts)
	}
}

func TestCache_GetOrLoad(t *testing.T) {
	c := New[string, string](4)
	loads := 0
	load := func() (string, error) {
		loads++
		return "compiled", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("k", load)
		if err != nil || v != "compiled" {
			t.Fatalf("GetOrLoad() = %q, %v", v, err)
		}
	}
	if loads != 1 {
		t.Errorf("load called %d times; want 1", loads)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrLoad("bad", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("GetOrLoad() error = %v; want boom", err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed loads must not be cached")
	}
}

func TestCache_RemovePurge(t *testing.T) {
	c := New[int, int](0)
	for i := 0; i < 10; i++ {
		c.Add(i, i)
	}
	c.Remove(3)
	if _, ok := c.Get(3); ok {
		t.Error("3 should be removed")
	}
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() = %d; want 0 after Purge", c.Len())
	}
	if s := c.Stats(); s.Capacity != DefaultCapacity {
		t.Errorf("Capacity = %d; want %d", s.Capacity, DefaultCapacity)
	}
}

func TestCache_Stats(t *testing.T) {
	c := New[string, int](2)
	c.Add("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("b")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("Hits, Misses = %d, %d; want 2, 1", s.Hits, s.Misses)
	}
	if s.HitRate < 0.66 || s.HitRate > 0.67 {
		t.Errorf("HitRate = %f; want 2/3", s.HitRate)
	}
	if s.Size != 1 {
		t.Errorf("Size = %d; want 1", s.Size)
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New[string, int](16)
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%8)
			v, err := c.GetOrLoad(key, func() (int, error) { return i % 8, nil })
			if err != nil || v != i%8 {
				t.Errorf("GetOrLoad(%s) = %d, %v", key, v, err)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != 8 {
		t.Errorf("Len() = %d; want 8", c.Len())
	}
}
