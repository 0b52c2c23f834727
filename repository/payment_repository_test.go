package repository

import (
	"context"
	"testing"

	"karnalix/domain"
	"karnalix/domain/entities"
	"karnalix/repository/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositRepository_Review(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDepositRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.SeedUser(t, testDB.DB, "alice", entities.RoleUser, nil)
	admin := testutil.SeedUser(t, testDB.DB, "admin", entities.RoleAdmin, nil)

	deposit := &entities.Deposit{
		Reference: uuid.New(), UserID: user.ID, Amount: 5000,
		PaymentMethod: "bank", Status: entities.ReviewStatusPending,
	}
	require.NoError(t, repo.Create(ctx, deposit))
	assert.NotZero(t, deposit.ID)

	require.NoError(t, repo.Review(ctx, deposit.ID, entities.ReviewStatusApproved, admin.ID, "verified"))

	stored, err := repo.GetByIDForUpdate(ctx, deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ReviewStatusApproved, stored.Status)
	require.NotNil(t, stored.ReviewedBy)
	assert.Equal(t, admin.ID, *stored.ReviewedBy)
	assert.Equal(t, "verified", stored.ReviewNotes)
	assert.NotNil(t, stored.ReviewedAt)

	t.Run("second review conflicts", func(t *testing.T) {
		err := repo.Review(ctx, deposit.ID, entities.ReviewStatusRejected, admin.ID, "")
		assert.ErrorIs(t, err, domain.ErrAlreadySettled)
	})
}

func TestWithdrawalRepository_Review(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWithdrawalRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.SeedUser(t, testDB.DB, "alice", entities.RoleUser, nil)
	admin := testutil.SeedUser(t, testDB.DB, "admin", entities.RoleAdmin, nil)

	withdrawal := &entities.Withdrawal{
		Reference: uuid.New(), UserID: user.ID, Amount: 2000,
		PaymentMethod: "bank", AccountDetails: "IBAN1",
		Status: entities.ReviewStatusPending,
	}
	require.NoError(t, repo.Create(ctx, withdrawal))

	require.NoError(t, repo.Review(ctx, withdrawal.ID, entities.ReviewStatusRejected, admin.ID, "name mismatch"))

	stored, err := repo.GetByIDForUpdate(ctx, withdrawal.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ReviewStatusRejected, stored.Status)

	t.Run("second review conflicts", func(t *testing.T) {
		err := repo.Review(ctx, withdrawal.ID, entities.ReviewStatusApproved, admin.ID, "")
		assert.ErrorIs(t, err, domain.ErrAlreadySettled)
	})
}

func TestPaymentRepositories_ListByUsers(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	deposits := NewDepositRepository(testDB.DB)
	withdrawals := NewWithdrawalRepository(testDB.DB)
	ctx := context.Background()

	alice := testutil.SeedUser(t, testDB.DB, "alice", entities.RoleUser, nil)
	bob := testutil.SeedUser(t, testDB.DB, "bob", entities.RoleUser, nil)

	require.NoError(t, deposits.Create(ctx, &entities.Deposit{
		Reference: uuid.New(), UserID: alice.ID, Amount: 100,
		PaymentMethod: "bank", Status: entities.ReviewStatusPending,
	}))
	require.NoError(t, deposits.Create(ctx, &entities.Deposit{
		Reference: uuid.New(), UserID: bob.ID, Amount: 200,
		PaymentMethod: "bank", Status: entities.ReviewStatusPending,
	}))
	require.NoError(t, withdrawals.Create(ctx, &entities.Withdrawal{
		Reference: uuid.New(), UserID: alice.ID, Amount: 50,
		PaymentMethod: "bank", AccountDetails: "IBAN1",
		Status: entities.ReviewStatusPending,
	}))

	t.Run("nil user set is unrestricted", func(t *testing.T) {
		all, err := deposits.ListByUsers(ctx, nil, nil, 0)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("restricted to one user", func(t *testing.T) {
		only, err := deposits.ListByUsers(ctx, []int64{alice.ID}, nil, 0)
		require.NoError(t, err)
		require.Len(t, only, 1)
		assert.Equal(t, alice.ID, only[0].UserID)
	})

	t.Run("status filter", func(t *testing.T) {
		approved := entities.ReviewStatusApproved
		none, err := withdrawals.ListByUsers(ctx, nil, &approved, 0)
		require.NoError(t, err)
		assert.Empty(t, none)

		pending := entities.ReviewStatusPending
		some, err := withdrawals.ListByUsers(ctx, []int64{alice.ID}, &pending, 0)
		require.NoError(t, err)
		assert.Len(t, some, 1)
	})
}
