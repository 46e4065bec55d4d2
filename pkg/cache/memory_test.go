package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tracklite/tracklite/core"
)

func testSession(id string) *core.Session {
	return &core.Session{
		ID:        id,
		AccountID: "alice",
		TokenHash: "hash-" + id,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestInMemoryCache_SetGet(t *testing.T) {
	c := NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 10})
	session := testSession("s1")

	if err := c.Set(session.TokenHash, session); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get(session.TokenHash)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != "s1" {
		t.Errorf("Get() = %q, want s1", got.ID)
	}

	if _, err := c.Get("unknown"); !errors.Is(err, core.ErrCacheNotFound) {
		t.Errorf("Get(unknown) error = %v, want %v", err, core.ErrCacheNotFound)
	}
}

func TestInMemoryCache_TTLExpiry(t *testing.T) {
	c := NewInMemoryCache(core.CacheConfig{TTL: time.Millisecond, MaxSize: 10})
	session := testSession("s1")
	_ = c.Set(session.TokenHash, session)

	time.Sleep(5 * time.Millisecond)

	if _, err := c.Get(session.TokenHash); !errors.Is(err, core.ErrCacheNotFound) {
		t.Errorf("Get(expired) error = %v, want %v", err, core.ErrCacheNotFound)
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not removed, Len() = %d", c.Len())
	}
}

func TestInMemoryCache_DeleteClear(t *testing.T) {
	c := NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 10})
	for i := 0; i < 3; i++ {
		s := testSession(fmt.Sprintf("s%d", i))
		_ = c.Set(s.TokenHash, s)
	}

	if err := c.Delete("hash-s0"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d after delete, want 2", c.Len())
	}
	// Deleting a missing key is not an error.
	if err := c.Delete("hash-s0"); err != nil {
		t.Errorf("repeated Delete() error = %v", err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after clear, want 0", c.Len())
	}
}

func TestInMemoryCache_Eviction(t *testing.T) {
	c := NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 3})
	for i := 0; i < 5; i++ {
		s := testSession(fmt.Sprintf("s%d", i))
		if err := c.Set(s.TokenHash, s); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	if c.Len() > 3 {
		t.Errorf("Len() = %d, must not exceed max size 3", c.Len())
	}
	if c.Stats().Evictions == 0 {
		t.Error("evictions counter should have moved")
	}
}

func TestInMemoryCache_Stats(t *testing.T) {
	c := NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 10})
	session := testSession("s1")
	_ = c.Set(session.TokenHash, session)

	_, _ = c.Get(session.TokenHash) // hit
	_, _ = c.Get("unknown")         // miss
	_ = c.Delete(session.TokenHash)

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 || stats.Deletes != 1 {
		t.Errorf("Stats() = %+v, want one of each", stats)
	}
	if stats.TTL != time.Minute {
		t.Errorf("TTL = %v, want 1m", stats.TTL)
	}
}

func TestInMemoryCache_Concurrent(t *testing.T) {
	c := NewInMemoryCache(core.CacheConfig{TTL: time.Minute, MaxSize: 100})
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := testSession(fmt.Sprintf("s%d", i))
			_ = c.Set(s.TokenHash, s)
			_, _ = c.Get(s.TokenHash)
			_ = c.Delete(s.TokenHash)
		}(i)
	}
	wg.Wait()

	if c.Len() != 0 {
		t.Errorf("Len() = %d after balanced set/delete, want 0", c.Len())
	}
}

func TestInMemoryCache_Defaults(t *testing.T) {
	c := NewInMemoryCache(core.CacheConfig{})
	if c.ttl != 5*time.Minute {
		t.Errorf("default TTL = %v, want 5m", c.ttl)
	}
	if c.maxSize != 500 {
		t.Errorf("default max size = %d, want 500", c.maxSize)
	}
}
