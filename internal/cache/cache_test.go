package cache

import (
	"fmt"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](0)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("Get on empty cache returned ok")
	}

	c.Set("a", 1)
	c.Set("b", 2)

	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheUnboundedNeverEvicts(t *testing.T) {
	c := New[int, int](0)
	const n = 10000
	for i := 0; i < n; i++ {
		c.Set(i, i)
	}
	if c.Len() != n {
		t.Fatalf("Len() = %d, want %d", c.Len(), n)
	}
	if ev := c.Stats().Evictions; ev != 0 {
		t.Fatalf("Evictions = %d, want 0", ev)
	}
}

func TestCacheSoftLimitEvictsOldest(t *testing.T) {
	c := New[int, int](8)
	for i := 0; i < 16; i++ {
		c.Set(i, i)
	}
	if c.Len() > 8 {
		t.Fatalf("Len() = %d, want <= 8", c.Len())
	}

	// The most recently inserted entry must survive eviction.
	if _, ok := c.Get(15); !ok {
		t.Fatal("most recent entry was evicted")
	}
	if ev := c.Stats().Evictions; ev == 0 {
		t.Fatal("expected evictions under soft limit")
	}
}

func TestCacheRecentAccessSurvivesEviction(t *testing.T) {
	c := New[int, int](8)
	for i := 0; i < 8; i++ {
		c.Set(i, i)
	}
	// Touch entry 0 so it is the most recently used.
	c.Get(0)
	for i := 8; i < 12; i++ {
		c.Set(i, i)
	}
	if _, ok := c.Get(0); !ok {
		t.Fatal("recently accessed entry was evicted before older ones")
	}
	// The untouched oldest entries must have gone first.
	if _, ok := c.Get(4); ok {
		t.Fatal("stale entry survived eviction ahead of newer ones")
	}
}

func TestCacheOnEvictReportsRemovedEntries(t *testing.T) {
	c := New[int, int](4)
	var evicted []int
	c.SetOnEvict(func(k, _ int) { evicted = append(evicted, k) })

	for i := 0; i < 5; i++ {
		c.Set(i, i)
	}
	if len(evicted) == 0 {
		t.Fatal("overflow produced no eviction callbacks")
	}
	for _, k := range evicted {
		if _, ok := c.Get(k); ok {
			t.Fatalf("evicted key %d still present", k)
		}
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New[string, string](0)
	c.Set("k", "v")

	if !c.Delete("k") {
		t.Fatal("Delete(k) = false, want true")
	}
	if c.Delete("k") {
		t.Fatal("second Delete(k) = true, want false")
	}

	c.Set("a", "1")
	c.Set("b", "2")
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestCacheStats(t *testing.T) {
	c := New[string, int](0)
	c.Set("a", 1)

	c.Get("a")       // hit
	c.Get("missing") // miss

	s := c.Stats()
	if s.Hits != 1 {
		t.Errorf("Hits = %d, want 1", s.Hits)
	}
	if s.Misses != 1 {
		t.Errorf("Misses = %d, want 1", s.Misses)
	}
	if s.Len != 1 {
		t.Errorf("Len = %d, want 1", s.Len)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New[int, int](128)
	done := make(chan struct{})
	for g := 0; g < 4; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 1000; i++ {
				c.Set(g*1000+i, i)
				c.Get(g * 1000)
			}
		}(g)
	}
	for g := 0; g < 4; g++ {
		<-done
	}
}

func BenchmarkCacheHit(b *testing.B) {
	c := New[string, int](0)
	for i := 0; i < 100; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("key-50")
	}
}

func BenchmarkCacheMiss(b *testing.B) {
	c := New[string, int](0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("absent")
	}
}
