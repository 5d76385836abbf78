package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLockerMutualExclusion(t *testing.T) {
	locker := NewFileLocker(t.TempDir(), 5*time.Second, nil)
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

	assert.Equal(t, workers, counter, "critical sections must not interleave")
}

func TestFileLockerTimeout(t *testing.T) {
	dir := t.TempDir()
	holder := NewFileLocker(dir, time.Second, nil)
	waiter := NewFileLocker(dir, 150*time.Millisecond, nil)
	ctx := context.Background()

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = holder.WithLock(ctx, "schedules", func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	err := waiter.WithLock(ctx, "schedules", func(ctx context.Context) error {
		t.Fatal("must not enter the critical section")
		return nil
	})
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestFileLockerReleasesOnError(t *testing.T) {
	locker := NewFileLocker(t.TempDir(), time.Second, nil)
	ctx := context.Background()
	boom := errors.New("boom")

	err := locker.WithLock(ctx, "schedules", func(ctx context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Lock must be free again.
	err = locker.WithLock(ctx, "schedules", func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestFileLockerIndependentResources(t *testing.T) {
	locker := NewFileLocker(t.TempDir(), 250*time.Millisecond, nil)
	ctx := context.Background()

	err := locker.WithLock(ctx, "schedules", func(ctx context.Context) error {
		// A different resource has its own lock, so this must not block.
		return locker.WithLock(ctx, "patients", func(ctx context.Context) error { return nil })
	})
	assert.NoError(t, err)
}

func TestSanitizeResource(t *testing.T) {
	assert.Equal(t, "data_schedules.json", sanitizeResource("data/schedules.json"))
	assert.Equal(t, "plain-name_1", sanitizeResource("plain-name 1"))
}
