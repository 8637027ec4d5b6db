package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmapr/pkg/db/redis"
)

func TestNewClient(t *testing.T) {
	t.Run("connects to running server", func(t *testing.T) {
		srv := miniredis.RunT(t)

		client, err := redis.NewClient(context.Background(), redis.Config{
			Addr:     srv.Addr(),
			PoolSize: 2,
			Timeout:  time.Second,
		})

		require.NoError(t, err)
		require.NotNil(t, client)
		assert.NoError(t, client.Close())
	})

	t.Run("fails on unreachable server", func(t *testing.T) {
		client, err := redis.NewClient(context.Background(), redis.Config{
			Addr:    "127.0.0.1:1",
			Timeout: 200 * time.Millisecond,
		})

		require.Error(t, err)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), redis.ErrPing)
	})
}
