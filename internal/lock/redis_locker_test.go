package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLocker(t *testing.T, timeout time.Duration) *RedisLocker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLocker(client, 30*time.Second, timeout, nil)
}

func TestRedisLockerMutualExclusion(t *testing.T) {
	locker := newTestRedisLocker(t, 5*time.Second)
	ctx := context.Background()

	const workers = 8
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithLock(ctx, "schedules", func(ctx context.Context) error {
				v := counter
				time.Sleep(time.Millisecond)
				counter = v + 1
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestRedisLockerTimeout(t *testing.T) {
	locker := newTestRedisLocker(t, 150*time.Millisecond)
	ctx := context.Background()

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = locker.WithLock(ctx, "schedules", func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	err := locker.WithLock(ctx, "schedules", func(ctx context.Context) error {
		t.Fatal("must not enter the critical section")
		return nil
	})
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestRedisLockerReleaseOnFnReturn(t *testing.T) {
	locker := newTestRedisLocker(t, time.Second)
	ctx := context.Background()

	require.NoError(t, locker.WithLock(ctx, "schedules", func(ctx context.Context) error { return nil }))

	// Immediately reacquirable once the scope has exited.
	assert.NoError(t, locker.WithLock(ctx, "schedules", func(ctx context.Context) error { return nil }))
}
