package cache

import (
	"errors"
	"strconv"
	"time"

	"sjsage522/vintedscout/logger"
)

// CacheService represents a generic key/value cache with expiring entries
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

// ErrMiss is returned by in-process stores when a key is absent or expired
var ErrMiss = errors.New("cache: miss")

// Cooldown remembers that the upstream asked us to back off. Backed by
// memcache, the block outlives the process, so a run started right after a
// rate-limited one does not hit the upstream again.
type Cooldown struct {
	store     CacheService
	blockTime time.Duration
	log       *logger.Logger
}

// NewCooldown creates a cooldown backed by store
func NewCooldown(store CacheService, blockTime time.Duration) *Cooldown {
	return &Cooldown{
		store:     store,
		blockTime: blockTime,
		log:       logger.ForCache(),
	}
}

// Blocked reports whether key is inside a cooldown window. Store failures
// are logged and treated as not blocked.
func (c *Cooldown) Blocked(key string) bool {
	if c == nil || c.store == nil {
		return false
	}
	_, err := c.store.Get(key)
	if err == nil {
		return true
	}
	if !isMiss(err) {
		c.log.Warn().Err(err).Str("key", key).Msg("Cooldown lookup failed")
	}
	return false
}

// Block starts a cooldown window for key
func (c *Cooldown) Block(key string) {
	if c == nil || c.store == nil || c.blockTime <= 0 {
		return
	}
	until := time.Now().Add(c.blockTime).Unix()
	if err := c.store.Set(key, []byte(strconv.FormatInt(until, 10)), c.blockTime); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to record cooldown")
		return
	}
	c.log.Warn().
		Str("key", key).
		Dur("block_time", c.blockTime).
		Msg("Upstream rate limited us, blocking further requests")
}
