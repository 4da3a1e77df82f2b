package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayCache_Use(t *testing.T) {
	c := NewReplayCache(time.Minute)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Use("a"))
	assert.ErrorIs(t, c.Use("a"), common.ErrReplayed)
	require.NoError(t, c.Use("b"))

	now = now.Add(2 * time.Minute)
	require.NoError(t, c.Use("a"), "expired keys can be reused")
	assert.Equal(t, 1, c.Len(), "sweep drops expired keys")
}

func TestReplayCache_Concurrent(t *testing.T) {
	c := NewReplayCache(time.Minute)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Use("same") == nil {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, won)
}
