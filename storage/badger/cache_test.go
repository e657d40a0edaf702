package badger

import (
	"context"
	"testing"

	"github.com/poiesic/answerit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache("", true)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCachePutGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	id := core.IDFromContent("model\x00passage text")
	vector := []float32{0.1, -0.2, 0.3}

	_, found, err := cache.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Put(ctx, id, vector))

	got, found, err := cache.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, vector, got)
}

func TestCacheOverwrite(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	id := core.IDFromContent("same content")
	require.NoError(t, cache.Put(ctx, id, []float32{1, 2}))
	require.NoError(t, cache.Put(ctx, id, []float32{3, 4}))

	got, found, err := cache.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []float32{3, 4}, got)
}

func TestCacheDurable(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	id := core.IDFromContent("durable")

	cache, err := OpenCache(dir, false)
	require.NoError(t, err)
	require.NoError(t, cache.Put(ctx, id, []float32{0.5}))
	require.NoError(t, cache.Close())

	reopened, err := OpenCache(dir, false)
	require.NoError(t, err)
	defer reopened.Close()

	got, found, err := reopened.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []float32{0.5}, got)
}

func TestCacheClosed(t *testing.T) {
	cache := newTestCache(t)
	require.NoError(t, cache.Close())

	_, _, err := cache.Get(context.Background(), 1)
	assert.Error(t, err)
	assert.Error(t, cache.Put(context.Background(), 1, []float32{1}))
}
