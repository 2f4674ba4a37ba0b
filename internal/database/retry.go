package database

import (
	"context"
	"database/sql/driver"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	sqlStateDeadlockDetected    = "40P01"
	sqlStateLockNotAvailable    = "55P03"
	sqlStateForeignKeyViolation = "23503"
	sqlClassTransactionRollback = "40"
	sqlClassConnectionError     = "08"
)

// RetryPolicy bounds how often a unit of work is restarted after a
// transient failure.
type RetryPolicy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     1500 * time.Millisecond,
	}
}

func (p RetryPolicy) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialDelay > 0 {
		b.InitialInterval = p.InitialDelay
	}
	if p.MaxDelay > 0 {
		b.MaxInterval = p.MaxDelay
		if b.InitialInterval > p.MaxDelay {
			b.InitialInterval = p.MaxDelay
		}
	}
	b.MaxElapsedTime = 0
	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithMaxRetries(b, uint64(retries))
}

// WithRetry runs fn, restarting it from scratch while it fails with an error
// isTransient accepts, up to policy.MaxRetries extra attempts. The last error
// is returned once retries are exhausted, also when ctx ends between attempts
// (wrapped with the context error); any other error is returned as is.
func WithRetry(ctx context.Context, policy RetryPolicy, isTransient func(error) bool, fn func() error) error {
	attempt := 0
	var lastErr error
	operation := func() error {
		attempt++
		err := fn()
		if err != nil && !isTransient(err) {
			return backoff.Permanent(err)
		}
		lastErr = err
		return err
	}

	notify := func(err error, wait time.Duration) {
		log.WithFields(log.Fields{
			"attempt": attempt,
			"wait":    wait,
		}).WithError(err).Warn("Transient storage failure, retrying")
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(policy.backOff(), ctx), notify)
	if err != nil && lastErr != nil && err == ctx.Err() {
		return errors.Wrapf(lastErr, "retry stopped: %v", err)
	}
	return err
}

// IsTransient reports whether err is a storage condition expected to succeed
// on retry: serialization failures, deadlocks, lock timeouts and dropped
// connections.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code.Class() == sqlClassTransactionRollback:
			return true
		case pqErr.Code.Class() == sqlClassConnectionError:
			return true
		case pqErr.Code == sqlStateLockNotAvailable:
			return true
		}
	}
	return false
}

// IsLockContention reports whether err is a deadlock or lock-not-available
// outcome, the expected result of several instances deleting the same rows.
func IsLockContention(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == sqlStateDeadlockDetected || pqErr.Code == sqlStateLockNotAvailable
	}
	return false
}

// IsForeignKeyViolation reports whether err is a write refused because other
// rows still reference the target row.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == sqlStateForeignKeyViolation
	}
	return false
}
