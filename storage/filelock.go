package storage

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

// FileLock is a cross-process lock guarding the document file
type FileLock interface {
	// TryLockContext retries every retryInterval until the lock is held or
	// ctx is done
	TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error)
	Unlock() error
}

// FileLockFactory creates the lock for a path
type FileLockFactory interface {
	New(path string) FileLock
}

// FlockFactory creates locks backed by github.com/gofrs/flock
type FlockFactory struct{}

// New implements FileLockFactory. *flock.Flock already satisfies FileLock.
func (FlockFactory) New(path string) FileLock {
	return flock.New(path)
}
