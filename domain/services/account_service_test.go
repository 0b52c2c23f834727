package services

import (
	"context"
	"errors"
	"testing"

	"karnalix/config"
	"karnalix/domain"
	"karnalix/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLedgerService struct {
	mock.Mock
}

func (m *mockLedgerService) Mint(ctx context.Context, actor entities.Principal, toUserID int64, amount int64, description string) (*entities.MintResult, error) {
	args := m.Called(ctx, actor, toUserID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MintResult), args.Error(1)
}

func (m *mockLedgerService) Transfer(ctx context.Context, actor entities.Principal, toUserID int64, amount int64, kind entities.WalletKind, description string) (*entities.TransferResult, error) {
	args := m.Called(ctx, actor, toUserID, amount, kind, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TransferResult), args.Error(1)
}

func (m *mockLedgerService) GrantBonus(ctx context.Context, actor entities.Principal, toUserID int64, amount int64, description string) (*entities.MintResult, error) {
	args := m.Called(ctx, actor, toUserID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MintResult), args.Error(1)
}

func (m *mockLedgerService) GrantReferralReward(ctx context.Context, referrerID, newUserID int64, amount int64) (*entities.MintResult, error) {
	args := m.Called(ctx, referrerID, newUserID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MintResult), args.Error(1)
}

func TestAccountService_CreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with wallet set", func(t *testing.T) {
		config.SetTestConfig(config.NewTestConfig())
		defer config.ResetConfig()

		uow, factory := newTestUoW()
		ledger := new(mockLedgerService)
		service := NewAccountService(factory, ledger)

		created := &entities.User{ID: 5000, Username: "alice", Role: entities.RoleUser, CreatedBy: &testAgent.UserID}
		uow.UserRepo.On("Create", ctx, "alice", entities.RoleUser, &testAgent.UserID).Return(created, nil)
		uow.WalletRepo.On("CreateSet", ctx, int64(5000)).Return(nil)

		user, err := service.CreateAccount(ctx, testAgent, "alice", entities.RoleUser, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), user.ID)
		assert.True(t, uow.Committed)
		require.Len(t, uow.Publisher.Events, 1)
		ledger.AssertNotCalled(t, "GrantReferralReward", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assertUoWExpectations(t, uow)
	})

	t.Run("role hierarchy", func(t *testing.T) {
		cases := []struct {
			name  string
			actor entities.Principal
			role  entities.Role
			want  error
		}{
			{"agent cannot create agent", testAgent, entities.RoleAgent, domain.ErrHierarchyViolation},
			{"agent cannot create admin", testAgent, entities.RoleAdmin, domain.ErrHierarchyViolation},
			{"admin cannot create admin", testAdmin, entities.RoleAdmin, domain.ErrHierarchyViolation},
			{"user cannot create anyone", testUser, entities.RoleUser, domain.ErrHierarchyViolation},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				uow, factory := newTestUoW()
				service := NewAccountService(factory, new(mockLedgerService))

				_, err := service.CreateAccount(ctx, tc.actor, "bob", tc.role, nil)
				assert.True(t, errors.Is(err, tc.want), "got %v", err)
				assert.False(t, uow.Began)
			})
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		_, factory := newTestUoW()
		service := NewAccountService(factory, new(mockLedgerService))

		_, err := service.CreateAccount(ctx, testMasterAdmin, "bob", entities.Role("superuser"), nil)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("empty username", func(t *testing.T) {
		_, factory := newTestUoW()
		service := NewAccountService(factory, new(mockLedgerService))

		_, err := service.CreateAccount(ctx, testAdmin, "", entities.RoleUser, nil)
		assert.Error(t, err)
	})

	t.Run("referral reward granted after commit", func(t *testing.T) {
		config.SetTestConfig(config.NewTestConfig())
		defer config.ResetConfig()

		uow, factory := newTestUoW()
		ledger := new(mockLedgerService)
		service := NewAccountService(factory, ledger)

		referrerID := TestUserID
		created := &entities.User{ID: 5001, Username: "carol", Role: entities.RoleUser, CreatedBy: &testAgent.UserID}
		uow.UserRepo.On("GetByID", ctx, referrerID).Return(storedUser(referrerID, entities.RoleUser), nil)
		uow.UserRepo.On("Create", ctx, "carol", entities.RoleUser, &testAgent.UserID).Return(created, nil)
		uow.WalletRepo.On("CreateSet", ctx, int64(5001)).Return(nil)
		ledger.On("GrantReferralReward", ctx, referrerID, int64(5001), int64(500)).
			Return(&entities.MintResult{}, nil)

		_, err := service.CreateAccount(ctx, testAgent, "carol", entities.RoleUser, &referrerID)
		require.NoError(t, err)
		ledger.AssertExpectations(t)
		assertUoWExpectations(t, uow)
	})

	t.Run("reward failure does not fail account creation", func(t *testing.T) {
		config.SetTestConfig(config.NewTestConfig())
		defer config.ResetConfig()

		uow, factory := newTestUoW()
		ledger := new(mockLedgerService)
		service := NewAccountService(factory, ledger)

		referrerID := TestUserID
		created := &entities.User{ID: 5002, Username: "dave", Role: entities.RoleUser}
		uow.UserRepo.On("GetByID", ctx, referrerID).Return(storedUser(referrerID, entities.RoleUser), nil)
		uow.UserRepo.On("Create", ctx, "dave", entities.RoleUser, &testAgent.UserID).Return(created, nil)
		uow.WalletRepo.On("CreateSet", ctx, int64(5002)).Return(nil)
		ledger.On("GrantReferralReward", ctx, referrerID, int64(5002), int64(500)).
			Return(nil, domain.NewError(domain.CodeNotFound, "referrer gone"))

		user, err := service.CreateAccount(ctx, testAgent, "dave", entities.RoleUser, &referrerID)
		require.NoError(t, err)
		assert.Equal(t, int64(5002), user.ID)
		assert.True(t, uow.Committed)
	})

	t.Run("unknown referrer aborts creation", func(t *testing.T) {
		uow, factory := newTestUoW()
		service := NewAccountService(factory, new(mockLedgerService))

		referrerID := int64(999999)
		uow.UserRepo.On("GetByID", ctx, referrerID).Return(nil, nil)

		_, err := service.CreateAccount(ctx, testAgent, "eve", entities.RoleUser, &referrerID)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		assert.False(t, uow.Committed)
	})
}
