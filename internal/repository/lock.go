package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/relmint/relmint/internal/domain"
)

const (
	// LockFileName is the advisory lock file created in the checkout root.
	LockFileName = ".relmint.lock"
	// LockTimeout is the maximum time to wait for the checkout lock.
	LockTimeout = 5 * time.Second
	// LockRetryInterval is the interval between lock acquisition attempts.
	LockRetryInterval = 100 * time.Millisecond
)

// TransactionLock serializes release transactions against one checkout. Two
// concurrent transactions would corrupt each other's rollback records, so a
// second invocation fails fast with a precondition error instead.
type TransactionLock struct {
	lock *flock.Flock
}

// NewTransactionLock creates a lock rooted at the checkout directory.
func NewTransactionLock(dir string) *TransactionLock {
	return &TransactionLock{lock: flock.New(filepath.Join(dir, LockFileName))}
}

// Acquire takes the exclusive checkout lock, waiting up to LockTimeout.
func (l *TransactionLock) Acquire(ctx context.Context) error {
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	locked, err := l.lock.TryLockContext(lockCtx, LockRetryInterval)
	if err != nil && err != context.DeadlineExceeded {
		return fmt.Errorf("failed to acquire checkout lock: %w", err)
	}
	if !locked {
		return domain.NewPreconditionError(domain.ErrCheckoutLocked, l.lock.Path())
	}
	return nil
}

// Release drops the checkout lock.
func (l *TransactionLock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("failed to release checkout lock: %w", err)
	}
	return nil
}
