package repository

import (
	"context"
	"testing"

	"karnalix/domain"
	"karnalix/domain/entities"
	"karnalix/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("user not found", func(t *testing.T) {
		user, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("user found", func(t *testing.T) {
		seeded := testutil.SeedUser(t, testDB.DB, "alice", entities.RoleUser, nil)

		user, err := repo.GetByID(ctx, seeded.ID)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, entities.RoleUser, user.Role)
		assert.False(t, user.KycApproved)
		assert.Nil(t, user.CreatedBy)
	})
}

func TestUserRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		agent := testutil.SeedUser(t, testDB.DB, "agent-1", entities.RoleAgent, nil)

		user, err := repo.Create(ctx, "bob", entities.RoleUser, &agent.ID)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.NotZero(t, user.ID)
		assert.Equal(t, "bob", user.Username)
		assert.Equal(t, entities.RoleUser, user.Role)
		require.NotNil(t, user.CreatedBy)
		assert.Equal(t, agent.ID, *user.CreatedBy)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := repo.Create(ctx, "carol", entities.RoleUser, nil)
		require.NoError(t, err)

		_, err = repo.Create(ctx, "carol", entities.RoleUser, nil)
		assert.Error(t, err)
	})
}

func TestUserRepository_GetCreatedUserIDs(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	agent := testutil.SeedUser(t, testDB.DB, "agent-1", entities.RoleAgent, nil)
	otherAgent := testutil.SeedUser(t, testDB.DB, "agent-2", entities.RoleAgent, nil)
	u1 := testutil.SeedUser(t, testDB.DB, "player-1", entities.RoleUser, &agent.ID)
	u2 := testutil.SeedUser(t, testDB.DB, "player-2", entities.RoleUser, &agent.ID)
	testutil.SeedUser(t, testDB.DB, "player-3", entities.RoleUser, &otherAgent.ID)

	t.Run("returns only direct creations", func(t *testing.T) {
		ids, err := repo.GetCreatedUserIDs(ctx, agent.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{u1.ID, u2.ID}, ids)
	})

	t.Run("no creations", func(t *testing.T) {
		ids, err := repo.GetCreatedUserIDs(ctx, u1.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestUserRepository_SetKycApproved(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("flips the flag", func(t *testing.T) {
		user := testutil.SeedUser(t, testDB.DB, "dave", entities.RoleUser, nil)

		err := repo.SetKycApproved(ctx, user.ID, true)
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, stored.KycApproved)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := repo.SetKycApproved(ctx, 999999, true)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestKycVerifier_IsWithdrawalEligible(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	verifier := NewKycVerifier(testDB.DB)
	ctx := context.Background()

	t.Run("unapproved user is ineligible", func(t *testing.T) {
		user := testutil.SeedUser(t, testDB.DB, "eve", entities.RoleUser, nil)

		eligible, err := verifier.IsWithdrawalEligible(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, eligible)
	})

	t.Run("approved user is eligible", func(t *testing.T) {
		user := testutil.SeedUser(t, testDB.DB, "frank", entities.RoleUser, nil)
		testutil.SetKycApproved(t, testDB.DB, user.ID)

		eligible, err := verifier.IsWithdrawalEligible(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, eligible)
	})

	t.Run("unknown user is ineligible", func(t *testing.T) {
		eligible, err := verifier.IsWithdrawalEligible(ctx, 999999)
		require.NoError(t, err)
		assert.False(t, eligible)
	})
}
