package cache

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func TestCache_SetGet(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)}
	c := New(clock.Now)

	c.Set("f1:next_race", "doc", time.Minute)
	v, ok := c.Get("f1:next_race")
	if !ok || v != "doc" {
		t.Fatalf("want hit with doc, got %v %v", v, ok)
	}
	if _, ok := c.Get("drivers_championship"); ok {
		t.Error("want miss for unknown key")
	}
}

func TestCache_MissAfterExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)}
	c := New(clock.Now)
	c.Set("k", "v", 10*time.Second)

	clock.Advance(9 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("want hit before expiry")
	}

	clock.Advance(time.Second) // now == expiresAt
	if v, ok := c.Get("k"); ok {
		t.Fatalf("want miss at expiry, got %v", v)
	}
	if c.Len() != 0 {
		t.Errorf("want stale entry purged, got %d entries", c.Len())
	}
}

func TestCache_ZeroTTLIsImmediatelyStale(t *testing.T) {
	c := New(nil)
	c.Set("k", "v", 0)
	if _, ok := c.Get("k"); ok {
		t.Error("want miss for zero TTL")
	}
}

func TestCache_OverwriteExtendsExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)}
	c := New(clock.Now)
	c.Set("k", "old", time.Second)
	c.Set("k", "new", time.Hour)

	clock.Advance(time.Minute)
	v, ok := c.Get("k")
	if !ok || v != "new" {
		t.Errorf("want new, got %v %v", v, ok)
	}
	exp, _ := c.ExpiresAt("k")
	if want := clock.Now().Add(-time.Minute + time.Hour); !exp.Equal(want) {
		t.Errorf("expiresAt: want %v, got %v", want, exp)
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Set("k", i, time.Millisecond*time.Duration(j%3))
				c.Get("k")
			}
		}(i)
	}
	wg.Wait()
}
