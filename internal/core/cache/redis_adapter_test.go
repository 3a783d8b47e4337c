package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) (*RedisAdapter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	adapter, err := NewRedisAdapter("redis://"+mr.Addr(), "limiter:")
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	return adapter, mr
}

func TestRedisAdapter_GetSet(t *testing.T) {
	adapter, mr := newTestAdapter(t)

	err := adapter.Set("203.0.113.7", []byte("3"), 10*time.Second)
	require.NoError(t, err)

	val, err := adapter.Get("203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), val)

	// Keys are namespaced.
	assert.True(t, mr.Exists("limiter:203.0.113.7"))
}

func TestRedisAdapter_GetNotFound(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	val, err := adapter.Get("non_existent_key")
	assert.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisAdapter_SetIgnoresEmpty(t *testing.T) {
	adapter, mr := newTestAdapter(t)

	require.NoError(t, adapter.Set("", []byte("v"), 0))
	require.NoError(t, adapter.Set("k", nil, 0))
	assert.Empty(t, mr.Keys())
}

func TestRedisAdapter_Delete(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	require.NoError(t, adapter.Set("delete_test", []byte("value"), 0))
	require.NoError(t, adapter.Delete("delete_test"))

	val, err := adapter.Get("delete_test")
	assert.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisAdapter_TTL(t *testing.T) {
	adapter, mr := newTestAdapter(t)

	require.NoError(t, adapter.Set("ttl_test", []byte("expires_soon"), 1*time.Second))

	val, err := adapter.Get("ttl_test")
	assert.NoError(t, err)
	assert.NotNil(t, val)

	mr.FastForward(2 * time.Second)

	val, err = adapter.Get("ttl_test")
	assert.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisAdapter_Reset(t *testing.T) {
	adapter, mr := newTestAdapter(t)

	require.NoError(t, adapter.Set("a", []byte("1"), 0))
	require.NoError(t, adapter.Set("b", []byte("2"), 0))
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, adapter.Reset())

	assert.False(t, mr.Exists("limiter:a"))
	assert.False(t, mr.Exists("limiter:b"))
	assert.True(t, mr.Exists("unrelated"))
}

func TestRedisAdapter_Ping(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	assert.NoError(t, adapter.Ping(context.Background()))
}

func TestRedisAdapter_GetAfterServerClosed(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	mr.Close()

	_, err := adapter.Get("k")
	assert.Error(t, err)
}

func TestRedisAdapter_InvalidURL(t *testing.T) {
	_, err := NewRedisAdapter("invalid://url", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}
