package cache

import (
	"errors"
	"testing"
	"time"
)

func TestCacheSet(t *testing.T) {
	c := New[string](0)
	c.Set("key1", "value1")

	val, exists := c.Get("key1")
	if !exists {
		t.Fatal("key1 should exist")
	}
	if val != "value1" {
		t.Fatalf("expected 'value1', got '%s'", val)
	}
}

func TestCacheGetMissing(t *testing.T) {
	c := New[string](0)

	if _, exists := c.Get("missing"); exists {
		t.Fatal("missing key should not exist")
	}
}

func TestCacheTTL(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	c := New[bool](time.Minute)
	c.now = func() time.Time { return now }
	c.Set("poweroff", true)

	if _, exists := c.Get("poweroff"); !exists {
		t.Fatal("entry should exist immediately after set")
	}

	now = now.Add(2 * time.Minute)
	if _, exists := c.Get("poweroff"); exists {
		t.Fatal("entry should be expired after TTL")
	}
}

func TestCacheZeroTTL(t *testing.T) {
	now := time.Now()
	c := New[string](0)
	c.now = func() time.Time { return now }
	c.Set("key1", "value1")

	now = now.Add(24 * time.Hour)
	if _, exists := c.Get("key1"); !exists {
		t.Fatal("key1 should never expire with TTL=0")
	}
}

func TestCacheDelete(t *testing.T) {
	c := New[int](0)
	c.Set("k", 1)
	c.Delete("k")
	if _, exists := c.Get("k"); exists {
		t.Fatal("deleted key should not exist")
	}
}

func TestCacheGetOrLoad(t *testing.T) {
	c := New[string](0)
	calls := 0
	load := func() (string, error) {
		calls++
		return "yes", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("CanReboot", load)
		if err != nil {
			t.Fatalf("GetOrLoad() error = %v", err)
		}
		if v != "yes" {
			t.Errorf("GetOrLoad() = %q, want %q", v, "yes")
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}
}

func TestCacheGetOrLoad_ErrorNotCached(t *testing.T) {
	c := New[string](0)
	boom := errors.New("bus unavailable")

	if _, err := c.GetOrLoad("CanSuspend", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("GetOrLoad() error = %v, want %v", err, boom)
	}
	if _, exists := c.Get("CanSuspend"); exists {
		t.Error("failed load must not populate the cache")
	}
}
