package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_SetGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client)
	ctx := context.Background()

	mock.ExpectSet("apicache:forecast:28.4000:77.3100:2026-09-12", []byte(`{"ok":true}`), time.Hour).SetVal("OK")
	mock.ExpectGet("apicache:forecast:28.4000:77.3100:2026-09-12").SetVal(`{"ok":true}`)

	require.NoError(t, c.Set(ctx, "forecast:28.4000:77.3100:2026-09-12", []byte(`{"ok":true}`), time.Hour))

	value, ok, err := c.Get(ctx, "forecast:28.4000:77.3100:2026-09-12")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"ok":true}`), value)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Miss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client)

	mock.ExpectGet("apicache:missing").RedisNil()

	_, ok, err := c.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_ReadError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCache(client)

	mock.ExpectGet("apicache:key").SetErr(errors.New("connection refused"))

	_, ok, err := c.Get(context.Background(), "key")
	assert.Error(t, err)
	assert.False(t, ok)
}
