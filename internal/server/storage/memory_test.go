package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", strings.NewReader("hello"), 5))
	assert.Error(t, s.Put(ctx, "k2", strings.NewReader("hello"), 3))

	rc, err := s.Get(ctx, "k")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(data))

	require.NoError(t, s.Delete(ctx, "k"))
	assert.ErrorIs(t, s.Delete(ctx, "k"), common.ErrNotFound)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestNewBlobKey(t *testing.T) {
	a, b := NewBlobKey("b1"), NewBlobKey("b1")
	assert.True(t, strings.HasPrefix(a, "buckets/b1/"))
	assert.NotEqual(t, a, b)
}
