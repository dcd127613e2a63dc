package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/cache"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

func TestProductCache_Key(t *testing.T) {
	c := cache.NewProductCache(nil, "", 0, nil)
	assert.Equal(t, "stock-ledger:product:p1", c.Key("p1"))

	c = cache.NewProductCache(nil, "test", time.Second, logger.Nop())
	assert.Equal(t, "test:p1", c.Key("p1"))
}

func TestProductCache_SinClienteEsNoop(t *testing.T) {
	c := cache.NewProductCache(nil, "", 0, nil)
	ctx := context.Background()

	generation, ok := c.Generation(ctx, "p1")
	assert.False(t, ok)
	assert.Empty(t, generation)

	c.Set(ctx, &entity.Product{ID: "p1"}, "0:0")
	c.Invalidate(ctx, "p1")
	c.Invalidate(ctx)

	p, ok := c.Get(ctx, "p1")
	assert.False(t, ok)
	assert.Nil(t, p)
}

func TestProductCache_RedisInalcanzableEsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := cache.NewProductCache(client, "test", time.Minute, logger.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, ok := c.Generation(ctx, "p1")
	assert.False(t, ok)

	c.Set(ctx, &entity.Product{ID: "p1"}, "0:0")
	p, ok := c.Get(ctx, "p1")
	assert.False(t, ok)
	assert.Nil(t, p)
	c.Invalidate(ctx, "p1")
	c.Invalidate(ctx)
}

func TestNewClient_SinDireccionDevuelveNil(t *testing.T) {
	client, err := cache.NewClient(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.Nil(t, client)
}
