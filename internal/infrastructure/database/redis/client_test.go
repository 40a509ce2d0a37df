package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(&RedisConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestNewClient_Success(t *testing.T) {
	client, _ := newTestClient(t)
	assert.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, "redis", client.Name())
	assert.NoError(t, client.Check(context.Background()))
}

func TestNewClient_ConnectionFailed(t *testing.T) {
	cfg := &RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond}
	client, err := NewClient(cfg, nil)
	require.Error(t, err)
	assert.Nil(t, client)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestApplyDefaults(t *testing.T) {
	cfg := &RedisConfig{}
	applyDefaults(cfg)
	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
}

func TestClient_Operations(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "foo", "bar", time.Minute).Err())
	val, err := client.Get(ctx, "foo").Result()
	require.NoError(t, err)
	assert.Equal(t, "bar", val)

	assert.True(t, mr.Exists("foo"))
	assert.Equal(t, time.Minute, mr.TTL("foo"))

	require.NoError(t, client.Del(ctx, "foo").Err())
	assert.False(t, mr.Exists("foo"))
}

func TestClient_Closed(t *testing.T) {
	client, _ := newTestClient(t)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	ctx := context.Background()
	assert.ErrorIs(t, client.Ping(ctx), ErrClientClosed)
	assert.ErrorIs(t, client.Get(ctx, "k").Err(), ErrClientClosed)
	assert.ErrorIs(t, client.Set(ctx, "k", "v", 0).Err(), ErrClientClosed)
	assert.ErrorIs(t, client.Del(ctx, "k").Err(), ErrClientClosed)
	assert.ErrorIs(t, client.Scan(ctx, 0, "*", 10).Err(), ErrClientClosed)
}
