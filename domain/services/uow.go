package services

import (
	"context"
	"time"

	"karnalix/domain"
	"karnalix/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const (
	busyMaxAttempts = 3
	busyBaseBackoff = 50 * time.Millisecond
)

// runOnce executes fn inside a single unit of work, committing on
// success and rolling back on any error.
func runOnce(ctx context.Context, factory interfaces.UnitOfWorkFactory, fn func(uow interfaces.UnitOfWork) error) error {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}

	return uow.Commit()
}

// execute runs fn in a unit of work, retrying a bounded number of times
// when the attempt fails with a lock-wait busy error. Each retry gets a
// fresh transaction; non-busy failures are returned immediately.
func execute(ctx context.Context, factory interfaces.UnitOfWorkFactory, fn func(uow interfaces.UnitOfWork) error) error {
	backoff := busyBaseBackoff
	var err error
	for attempt := 1; attempt <= busyMaxAttempts; attempt++ {
		err = runOnce(ctx, factory, fn)
		if err == nil || !domain.IsRetryable(err) {
			return err
		}
		if attempt == busyMaxAttempts {
			break
		}

		log.WithFields(log.Fields{
			"attempt": attempt,
			"backoff": backoff,
		}).Warn("Ledger operation hit lock contention, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
