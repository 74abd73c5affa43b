package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetSet(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", 42)
	value, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 42, value)

	c.Set("a", 43)
	value, _ = c.Get("a")
	assert.Equal(t, 43, value)
}

func TestCacheDelete(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	c.Set("a", 1)
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	// Deleting an absent key is fine.
	c.Delete("nope")
}

func TestCacheClear(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := New(Config{DefaultTTL: 10 * time.Millisecond, CleanupInterval: time.Hour})
	defer c.Close()

	c.Set("a", 1)
	time.Sleep(30 * time.Millisecond)

	// Expired entries are invisible even before the sweeper runs.
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCacheMaxItemsEviction(t *testing.T) {
	evicted := make([]string, 0)
	c := New(Config{
		MaxItems: 3,
		OnEviction: func(key string) {
			evicted = append(evicted, key)
		},
	})
	defer c.Close()

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
		time.Sleep(time.Millisecond)
	}
	c.Set("k3", 3)

	// The entry closest to expiry (inserted first) was dropped.
	require.Len(t, evicted, 1)
	assert.Equal(t, "k0", evicted[0])
	_, ok := c.Get("k0")
	assert.False(t, ok)
	_, ok = c.Get("k3")
	assert.True(t, ok)
}

func TestCacheOverwriteAtCapacityDoesNotEvict(t *testing.T) {
	c := New(Config{MaxItems: 2})
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3)

	value, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, value)
	value, _ = c.Get("a")
	assert.Equal(t, 3, value)
}

func TestCacheCloseIdempotent(t *testing.T) {
	c := New(Config{})
	c.Close()
	c.Close()
}
