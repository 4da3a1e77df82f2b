package auth

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
)

// ReplayCache remembers values for a fixed period so each can be used only
// once. It backs both request nonces and token ids.
type ReplayCache struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	seen   map[string]time.Time
	nextGC time.Time
}

func NewReplayCache(ttl time.Duration) *ReplayCache {
	return &ReplayCache{ttl: ttl, now: time.Now, seen: map[string]time.Time{}}
}

// Use records key, or returns common.ErrReplayed if it was already
// recorded and has not expired.
func (c *ReplayCache) Use(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.After(c.nextGC) {
		for k, exp := range c.seen {
			if now.After(exp) {
				delete(c.seen, k)
			}
		}
		c.nextGC = now.Add(c.ttl)
	}

	if exp, ok := c.seen[key]; ok && !now.After(exp) {
		return common.ErrReplayed
	}
	c.seen[key] = now.Add(c.ttl)
	return nil
}

// Len returns the number of remembered keys, expired ones included until
// the next sweep.
func (c *ReplayCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
