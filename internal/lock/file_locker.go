package lock

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/striver-24/medical-appointment-agent/pkg/logging"
)

// FileLocker guards resources with OS advisory file locks, one marker file per
// resource, making booking safe across both goroutines and processes sharing
// the same on-disk container.
type FileLocker struct {
	dir        string
	timeout    time.Duration
	retryDelay time.Duration
	logger     *logging.Logger
}

// NewFileLocker creates a locker that keeps its marker files under dir.
// A non-positive timeout falls back to DefaultTimeout.
func NewFileLocker(dir string, timeout time.Duration, logger *logging.Logger) *FileLocker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FileLocker{
		dir:        dir,
		timeout:    timeout,
		retryDelay: 50 * time.Millisecond,
		logger:     logger,
	}
}

// WithLock acquires the resource's file lock, blocking up to the configured
// timeout, and runs fn under it.
func (l *FileLocker) WithLock(ctx context.Context, resource string, fn func(ctx context.Context) error) error {
	path := filepath.Join(l.dir, sanitizeResource(resource)+".lock")
	fl := flock.New(path)

	lockCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	ok, err := fl.TryLockContext(lockCtx, l.retryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.logger.Warn("lock: wait budget exceeded", "resource", resource, "timeout", l.timeout)
			return ErrLockTimeout
		}
		return fmt.Errorf("lock: acquire %q: %w", resource, err)
	}
	if !ok {
		return ErrLockTimeout
	}
	defer func() {
		if err := fl.Unlock(); err != nil {
			l.logger.Error("lock: release failed", "resource", resource, "error", err)
		}
	}()

	return fn(ctx)
}

// sanitizeResource keeps marker file names filesystem-safe.
func sanitizeResource(resource string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, resource)
}

var _ Locker = (*FileLocker)(nil)
