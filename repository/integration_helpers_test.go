package repository

import (
	"context"
	"testing"

	"karnalix/database"
	"karnalix/domain/interfaces"
	"karnalix/domain/testhelpers"

	"github.com/stretchr/testify/require"
)

func newTestUnitOfWorkFactory(db *database.DB, lockTimeoutMillis int64) interfaces.UnitOfWorkFactory {
	return NewUnitOfWorkFactory(db, lockTimeoutMillis, func() interfaces.TransactionalEventPublisher {
		return &testhelpers.RecordingEventPublisher{}
	})
}

// inUoW runs fn inside a committed unit of work
func inUoW(t *testing.T, db *database.DB, fn func(uow interfaces.UnitOfWork) error) {
	t.Helper()
	ctx := context.Background()

	uow := newTestUnitOfWorkFactory(db, 500).Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	require.NoError(t, fn(uow))
	require.NoError(t, uow.Commit())
}
