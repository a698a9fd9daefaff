package runlock

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrHeld indicates another marketcron run currently holds the lock.
var ErrHeld = errors.New("another marketcron run is in progress")

// Lock guards against overlapping pipeline runs via a flock'd file. The
// zero-value semantics mirror cron reality: locking is opt-in, and without it
// two concurrent invocations interleave in the shared log.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes the lock without blocking. It returns ErrHeld when another
// process owns it.
func Acquire(path string) (*Lock, error) {
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrHeld
	}
	return &Lock{fl: fl}, nil
}

// Release drops the lock. Safe on a nil receiver.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
