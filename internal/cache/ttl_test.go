package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLSetGet(t *testing.T) {
	c := NewTTL()
	c.Set("k", "v", time.Minute)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestTTLMiss(t *testing.T) {
	c := NewTTL()
	_, ok := c.Get("absent")
	assert.False(t, ok)
}

func TestTTLExpiry(t *testing.T) {
	c := NewTTL()
	c.Set("k", "v", 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestTTLNonPositiveTTLNotStored(t *testing.T) {
	c := NewTTL()
	c.Set("k", "v", 0)
	c.Set("k2", "v", -time.Second)

	_, ok := c.Get("k")
	assert.False(t, ok)
	_, ok = c.Get("k2")
	assert.False(t, ok)
}

func TestTTLClear(t *testing.T) {
	c := NewTTL()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Clear()

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestTTLConcurrentAccess(t *testing.T) {
	c := NewTTL()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("shared", j, time.Minute)
				c.Get("shared")
			}
		}()
	}
	wg.Wait()

	_, ok := c.Get("shared")
	assert.True(t, ok)
}
