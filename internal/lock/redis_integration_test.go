//go:build integration

package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisLockExcludesSecondHolder(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL is not set")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })

	key := "cvbank:test:" + t.Name()
	l := NewRedis(rdb, time.Minute, nil)

	release, err := l.Acquire(context.Background(), key)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, key)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	release()

	again, err := l.Acquire(context.Background(), key)
	require.NoError(t, err)
	again()

	n, err := rdb.Exists(context.Background(), key).Result()
	require.NoError(t, err)
	require.Zero(t, n)
}
