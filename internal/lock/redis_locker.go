package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/striver-24/medical-appointment-agent/pkg/logging"
)

// RedisLocker guards resources with a per-resource Redis key, for deployments
// where the schedule container itself lives in Redis. The key carries a token
// so only the holder can release it, and a TTL so a crashed holder cannot
// wedge the resource forever.
type RedisLocker struct {
	client     *redis.Client
	ttl        time.Duration
	timeout    time.Duration
	retryDelay time.Duration
	logger     *logging.Logger
}

// NewRedisLocker creates a Redis-backed locker. The TTL should comfortably
// exceed the longest critical section; non-positive values fall back to
// 30 seconds for the TTL and DefaultTimeout for the wait budget.
func NewRedisLocker(client *redis.Client, ttl, timeout time.Duration, logger *logging.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisLocker{
		client:     client,
		ttl:        ttl,
		timeout:    timeout,
		retryDelay: 50 * time.Millisecond,
		logger:     logger,
	}
}

// WithLock polls SET NX until the lock is held or the wait budget runs out,
// then runs fn under it.
func (l *RedisLocker) WithLock(ctx context.Context, resource string, fn func(ctx context.Context) error) error {
	key := "lock:" + resource
	token := uuid.NewString()
	deadline := time.Now().Add(l.timeout)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("lock: acquire %q: %w", resource, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			l.logger.Warn("lock: wait budget exceeded", "resource", resource, "timeout", l.timeout)
			return ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.retryDelay):
		}
	}

	defer func() {
		if err := l.release(context.WithoutCancel(ctx), key, token); err != nil {
			l.logger.Error("lock: release failed", "resource", resource, "error", err)
		}
	}()

	return fn(ctx)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *RedisLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

var _ Locker = (*RedisLocker)(nil)
