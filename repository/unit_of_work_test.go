package repository

import (
	"context"
	"testing"

	"karnalix/domain/entities"
	"karnalix/domain/interfaces"
	"karnalix/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitPersists(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	user := testutil.SeedUser(t, testDB.DB, "alice", entities.RoleUser, nil)
	ctx := context.Background()

	inUoW(t, testDB.DB, func(uow interfaces.UnitOfWork) error {
		_, err := uow.WalletRepository().ApplyDelta(ctx, user.ID, entities.WalletMain, 1500)
		return err
	})

	assert.Equal(t, int64(1500), testutil.Balance(t, testDB.DB, user.ID, entities.WalletMain))
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	user := testutil.SeedUser(t, testDB.DB, "alice", entities.RoleUser, nil)
	ctx := context.Background()

	uow := newTestUnitOfWorkFactory(testDB.DB, 500).Create()
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.WalletRepository().ApplyDelta(ctx, user.ID, entities.WalletMain, 1500)
	require.NoError(t, err)

	require.NoError(t, uow.Rollback())
	assert.Equal(t, int64(0), testutil.Balance(t, testDB.DB, user.ID, entities.WalletMain))
}

func TestUnitOfWork_Lifecycle(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	t.Run("double begin fails", func(t *testing.T) {
		uow := newTestUnitOfWorkFactory(testDB.DB, 500).Create()
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		assert.Error(t, uow.Begin(ctx))
	})

	t.Run("commit without begin fails", func(t *testing.T) {
		uow := newTestUnitOfWorkFactory(testDB.DB, 500).Create()
		assert.Error(t, uow.Commit())
	})

	t.Run("rollback without begin is a no-op", func(t *testing.T) {
		uow := newTestUnitOfWorkFactory(testDB.DB, 500).Create()
		assert.NoError(t, uow.Rollback())
	})

	t.Run("repository access before begin panics", func(t *testing.T) {
		uow := newTestUnitOfWorkFactory(testDB.DB, 500).Create()
		assert.Panics(t, func() { uow.WalletRepository() })
	})
}
