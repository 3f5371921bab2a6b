// Package indexlock coordinates readers and writers of the on-disk index file.
//
// The maintenance utility holds an exclusive lock while it rewrites the index;
// a serving process reading from a data directory holds a shared lock for the
// duration of each read. Both use a sidecar "<index>.lock" file so the index
// itself can be replaced atomically by rename.
package indexlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

const retryDelay = 50 * time.Millisecond

// ErrBusy is returned when the lock could not be acquired before ctx expired.
var ErrBusy = errors.New("index file is locked by another process")

// Path returns the sidecar lock path for an index file.
func Path(indexPath string) string {
	return indexPath + ".lock"
}

// Exclusive blocks until the exclusive lock for indexPath is held or ctx ends.
// The returned function releases the lock.
func Exclusive(ctx context.Context, indexPath string) (func(), error) {
	lock := flock.New(Path(indexPath))
	ok, err := lock.TryLockContext(ctx, retryDelay)
	return finish(lock, ok, err)
}

// Shared blocks until a shared lock for indexPath is held or ctx ends.
func Shared(ctx context.Context, indexPath string) (func(), error) {
	lock := flock.New(Path(indexPath))
	ok, err := lock.TryRLockContext(ctx, retryDelay)
	return finish(lock, ok, err)
}

func finish(lock *flock.Flock, ok bool, err error) (func(), error) {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrBusy, lock.Path())
		}
		return nil, fmt.Errorf("acquire lock %s: %w", lock.Path(), err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBusy, lock.Path())
	}
	return func() { _ = lock.Unlock() }, nil
}
