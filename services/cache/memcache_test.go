package cache

import (
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	// Test if memcached is available
	_, err := mc.client.Get("test")
	if err != nil && err != memcache.ErrCacheMiss {
		t.Skip("Memcached is not available, skipping test")
	}

	err = mc.Set("test_key", []byte("test_value"), 1*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get("test_key")
	assert.NoError(t, err)
	assert.Equal(t, "test_value", string(value))

	err = mc.Delete("test_key")
	assert.NoError(t, err)

	_, err = mc.Get("test_key")
	assert.True(t, isMiss(err))
}

func TestMemoryServiceExpires(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryService()
	m.now = func() time.Time { return now }

	assert.NoError(t, m.Set("k", []byte("v"), time.Minute))

	value, err := m.Get("k")
	assert.NoError(t, err)
	assert.Equal(t, "v", string(value))

	now = now.Add(time.Minute)
	_, err = m.Get("k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.ErrorIs(t, m.Delete("k"), ErrMiss)
}

func TestCooldown(t *testing.T) {
	store := NewMemoryService()
	cooldown := NewCooldown(store, time.Minute)

	assert.False(t, cooldown.Blocked("upstream_blocked"))

	cooldown.Block("upstream_blocked")
	assert.True(t, cooldown.Blocked("upstream_blocked"))
	assert.False(t, cooldown.Blocked("other"))

	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.False(t, cooldown.Blocked("upstream_blocked"))
}

func TestNilCooldownNeverBlocks(t *testing.T) {
	var cooldown *Cooldown
	cooldown.Block("k")
	assert.False(t, cooldown.Blocked("k"))

	disabled := NewCooldown(NewMemoryService(), 0)
	disabled.Block("k")
	assert.False(t, disabled.Blocked("k"))
}
