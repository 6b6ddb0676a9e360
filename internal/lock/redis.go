package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/spigell/cvbank/internal/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DefaultTTL   = 5 * time.Minute
	retryBackoff = 200 * time.Millisecond
)

// ErrNotHeld is returned by release when the lock expired or was taken over.
var ErrNotHeld = errors.New("lock is not held")

// releaseScript deletes the key only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a lease lock kept in a single Redis key. The lease expires after
// ttl, so a crashed holder cannot block a job forever.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedis builds a lock on top of rdb. A non-positive ttl means DefaultTTL.
func NewRedis(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{rdb: rdb, ttl: ttl, logger: logger}
}

// Acquire polls until the key is set by us or ctx is done.
func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	for {
		ok, err := r.rdb.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			break
		}

		r.logger.Debug("waiting for lock", zap.String("key", key))
		if err := utils.WaitFor(ctx, retryBackoff); err != nil {
			return nil, err
		}
	}

	return func() {
		// The caller's context may already be cancelled; release anyway.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := r.release(ctx, key, token); err != nil {
			r.logger.Warn("releasing lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (r *Redis) release(ctx context.Context, key, token string) error {
	n, err := releaseScript.Run(ctx, r.rdb, []string{key}, token).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotHeld
	}
	return nil
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
