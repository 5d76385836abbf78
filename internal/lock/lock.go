// Package lock provides scoped, timeout-bound mutual exclusion over named
// resources such as the schedule container or the patient registry file.
package lock

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds how long callers wait for a contended lock.
const DefaultTimeout = 10 * time.Second

// ErrLockTimeout is returned when a lock cannot be acquired within the wait
// budget. No mutation has happened when a caller sees it.
var ErrLockTimeout = errors.New("lock: acquisition timed out")

// Locker runs fn while holding an exclusive lock on the named resource and
// releases the lock on every exit path. One lock per logical store, not per
// record. Locks are not re-entrant: a caller already inside a lock scope must
// not re-acquire the same resource.
type Locker interface {
	WithLock(ctx context.Context, resource string, fn func(ctx context.Context) error) error
}
