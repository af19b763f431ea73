package storage

import (
	"sync"
)

// OperationType selects the lock a LockManager takes
type OperationType int

const (
	// ReadOperation may run alongside other reads
	ReadOperation OperationType = iota

	// WriteOperation is exclusive
	WriteOperation
)

// LockManager serializes access to in-memory state guarded by a single
// RWMutex. Callers never lock and unlock by hand, so a mutation cannot
// forget to release or take the wrong lock type.
type LockManager struct {
	mu sync.RWMutex
}

// NewLockManager creates a lock manager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// Execute runs fn under the lock matching opType
//
//	err := lm.Execute(WriteOperation, func() error {
//	    return mutate()
//	})
func (lm *LockManager) Execute(opType OperationType, fn func() error) error {
	switch opType {
	case ReadOperation:
		lm.mu.RLock()
		defer lm.mu.RUnlock()
	case WriteOperation:
		lm.mu.Lock()
		defer lm.mu.Unlock()
	}
	return fn()
}

// Read runs fn under the read lock and returns its result
func Read[T any](lm *LockManager, fn func() T) T {
	lm.mu.RLock()
	defer lm.mu.RUnlock()
	return fn()
}
