package services

import (
	"context"
	"errors"
	"testing"

	"karnalix/config"
	"karnalix/domain"
	"karnalix/domain/entities"
	"karnalix/domain/testhelpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pendingDeposit(userID, amount int64) *entities.Deposit {
	return &entities.Deposit{
		ID: 3, Reference: uuid.New(), UserID: userID, Amount: amount,
		PaymentMethod: "bank", Status: entities.ReviewStatusPending,
	}
}

func pendingWithdrawal(userID, amount int64) *entities.Withdrawal {
	return &entities.Withdrawal{
		ID: 4, Reference: uuid.New(), UserID: userID, Amount: amount,
		PaymentMethod: "bank", Status: entities.ReviewStatusPending,
	}
}

func TestPaymentService_RequestDeposit(t *testing.T) {
	ctx := context.Background()

	uow, factory := newTestUoW()
	service := NewPaymentService(factory, new(testhelpers.MockKycVerifier))

	uow.DepositRepo.On("Create", ctx, mock.MatchedBy(func(d *entities.Deposit) bool {
		return d.UserID == TestUserID && d.Amount == 10000 &&
			d.Status == entities.ReviewStatusPending && d.Reference != uuid.Nil
	})).Return(nil)

	deposit, err := service.RequestDeposit(ctx, testUser, 10000, "bank", "wire ref 123")
	require.NoError(t, err)
	assert.Equal(t, entities.ReviewStatusPending, deposit.Status)
	assert.True(t, uow.Committed)

	// No ledger effect until review
	uow.EntryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assertUoWExpectations(t, uow)
}

func TestPaymentService_ApproveDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("credits main and writes deposit entry", func(t *testing.T) {
		config.SetTestConfig(config.NewTestConfig())
		defer config.ResetConfig()

		uow, factory := newTestUoW()
		service := NewPaymentService(factory, new(testhelpers.MockKycVerifier))

		deposit := pendingDeposit(TestUserID, 10000)
		uow.DepositRepo.On("GetByIDForUpdate", ctx, int64(3)).Return(deposit, nil)
		uow.UserRepo.On("GetByID", ctx, TestUserID).Return(storedUser(TestUserID, entities.RoleUser), nil)
		uow.WalletRepo.On("GetForUpdate", ctx, TestUserID, entities.WalletMain).
			Return(wallet(TestUserID, entities.WalletMain, 0), nil)
		uow.DepositRepo.On("Review", ctx, int64(3), entities.ReviewStatusApproved, TestAdminID, "ok").Return(nil)
		uow.WalletRepo.On("ApplyDelta", ctx, TestUserID, entities.WalletMain, int64(10000)).
			Return(int64(10000), nil)
		uow.EntryRepo.On("Create", ctx, mock.MatchedBy(func(e *entities.LedgerEntry) bool {
			return e.Kind == entities.EntryKindDeposit && e.From == nil &&
				e.To.UserID == TestUserID && e.Amount == 10000
		})).Return(nil)

		result, err := service.ApproveDeposit(ctx, testAdmin, 3, "ok")
		require.NoError(t, err)
		assert.Equal(t, entities.ReviewStatusApproved, result.Deposit.Status)
		assert.Equal(t, int64(10000), result.NewMainBalance)
		assertUoWExpectations(t, uow)
	})

	t.Run("pays agent commission when configured", func(t *testing.T) {
		cfg := config.NewTestConfig()
		cfg.CommissionRateBPS = 200 // 2%
		config.SetTestConfig(cfg)
		defer config.ResetConfig()

		uow, factory := newTestUoW()
		service := NewPaymentService(factory, new(testhelpers.MockKycVerifier))

		depositor := storedUser(TestUserID, entities.RoleUser)
		agentID := TestAgentID
		depositor.CreatedBy = &agentID

		deposit := pendingDeposit(TestUserID, 10000)
		uow.DepositRepo.On("GetByIDForUpdate", ctx, int64(3)).Return(deposit, nil)
		uow.UserRepo.On("GetByID", ctx, TestUserID).Return(depositor, nil)
		uow.UserRepo.On("GetByID", ctx, TestAgentID).Return(storedUser(TestAgentID, entities.RoleAgent), nil)
		uow.WalletRepo.On("GetForUpdate", ctx, TestAgentID, entities.WalletMain).
			Return(wallet(TestAgentID, entities.WalletMain, 0), nil)
		uow.WalletRepo.On("GetForUpdate", ctx, TestUserID, entities.WalletMain).
			Return(wallet(TestUserID, entities.WalletMain, 0), nil)
		uow.DepositRepo.On("Review", ctx, int64(3), entities.ReviewStatusApproved, TestAdminID, "").Return(nil)
		uow.WalletRepo.On("ApplyDelta", ctx, TestUserID, entities.WalletMain, int64(10000)).
			Return(int64(10000), nil)
		uow.WalletRepo.On("ApplyDelta", ctx, TestAgentID, entities.WalletMain, int64(200)).
			Return(int64(200), nil)
		uow.EntryRepo.On("Create", ctx, mock.MatchedBy(func(e *entities.LedgerEntry) bool {
			return e.Kind == entities.EntryKindDeposit
		})).Return(nil)
		uow.EntryRepo.On("Create", ctx, mock.MatchedBy(func(e *entities.LedgerEntry) bool {
			return e.Kind == entities.EntryKindCommission &&
				e.To.UserID == TestAgentID && e.Amount == 200
		})).Return(nil)

		_, err := service.ApproveDeposit(ctx, testAdmin, 3, "")
		require.NoError(t, err)
		assertUoWExpectations(t, uow)
	})

	t.Run("second review fails with already settled", func(t *testing.T) {
		config.SetTestConfig(config.NewTestConfig())
		defer config.ResetConfig()

		uow, factory := newTestUoW()
		service := NewPaymentService(factory, new(testhelpers.MockKycVerifier))

		decided := pendingDeposit(TestUserID, 10000)
		decided.Status = entities.ReviewStatusApproved
		uow.DepositRepo.On("GetByIDForUpdate", ctx, int64(3)).Return(decided, nil)

		_, err := service.ApproveDeposit(ctx, testAdmin, 3, "")
		assert.True(t, errors.Is(err, domain.ErrAlreadySettled))
		assert.False(t, uow.Committed)
	})

	t.Run("agent cannot review", func(t *testing.T) {
		_, factory := newTestUoW()
		service := NewPaymentService(factory, new(testhelpers.MockKycVerifier))

		_, err := service.ApproveDeposit(ctx, testAgent, 3, "")
		assert.True(t, errors.Is(err, domain.ErrPermissionDenied))
	})
}

func TestPaymentService_RejectDeposit(t *testing.T) {
	ctx := context.Background()

	uow, factory := newTestUoW()
	service := NewPaymentService(factory, new(testhelpers.MockKycVerifier))

	deposit := pendingDeposit(TestUserID, 10000)
	uow.DepositRepo.On("GetByIDForUpdate", ctx, int64(3)).Return(deposit, nil)
	uow.DepositRepo.On("Review", ctx, int64(3), entities.ReviewStatusRejected, TestAdminID, "unverifiable").Return(nil)

	rejected, err := service.RejectDeposit(ctx, testAdmin, 3, "unverifiable")
	require.NoError(t, err)
	assert.Equal(t, entities.ReviewStatusRejected, rejected.Status)

	// Rejection never touches wallets or the ledger
	uow.WalletRepo.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	uow.EntryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assertUoWExpectations(t, uow)
}

func TestPaymentService_RequestWithdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("debits main and holds pending review", func(t *testing.T) {
		uow, factory := newTestUoW()
		kyc := new(testhelpers.MockKycVerifier)
		service := NewPaymentService(factory, kyc)

		kyc.On("IsWithdrawalEligible", ctx, TestUserID).Return(true, nil)
		uow.WalletRepo.On("GetForUpdate", ctx, TestUserID, entities.WalletMain).
			Return(wallet(TestUserID, entities.WalletMain, 5000), nil)
		uow.WalletRepo.On("ApplyDelta", ctx, TestUserID, entities.WalletMain, int64(-3000)).
			Return(int64(2000), nil)
		uow.WithdrawalRepo.On("Create", ctx, mock.MatchedBy(func(w *entities.Withdrawal) bool {
			return w.UserID == TestUserID && w.Amount == 3000 &&
				w.Status == entities.ReviewStatusPending
		})).Return(nil)

		result, err := service.RequestWithdrawal(ctx, testUser, 3000, "bank", "IBAN123")
		require.NoError(t, err)
		assert.Equal(t, int64(2000), result.NewMainBalance)

		// The hold has no ledger entry; the entry is written at approval
		uow.EntryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		kyc.AssertExpectations(t)
		assertUoWExpectations(t, uow)
	})

	t.Run("kyc gate", func(t *testing.T) {
		uow, factory := newTestUoW()
		kyc := new(testhelpers.MockKycVerifier)
		service := NewPaymentService(factory, kyc)

		kyc.On("IsWithdrawalEligible", ctx, TestUserID).Return(false, nil)

		_, err := service.RequestWithdrawal(ctx, testUser, 3000, "bank", "IBAN123")
		assert.True(t, errors.Is(err, domain.ErrKycRequired))
		assert.False(t, uow.Began)
	})

	t.Run("insufficient main balance", func(t *testing.T) {
		uow, factory := newTestUoW()
		kyc := new(testhelpers.MockKycVerifier)
		service := NewPaymentService(factory, kyc)

		kyc.On("IsWithdrawalEligible", ctx, TestUserID).Return(true, nil)
		uow.WalletRepo.On("GetForUpdate", ctx, TestUserID, entities.WalletMain).
			Return(wallet(TestUserID, entities.WalletMain, 100), nil)
		uow.WalletRepo.On("ApplyDelta", ctx, TestUserID, entities.WalletMain, int64(-3000)).
			Return(int64(0), domain.NewError(domain.CodeInsufficientFunds, "short"))

		_, err := service.RequestWithdrawal(ctx, testUser, 3000, "bank", "IBAN123")
		assert.True(t, errors.Is(err, domain.ErrInsufficientFunds))
		assert.False(t, uow.Committed)
	})
}

func TestPaymentService_DecideWithdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("approval writes the terminal withdrawal entry", func(t *testing.T) {
		uow, factory := newTestUoW()
		service := NewPaymentService(factory, new(testhelpers.MockKycVerifier))

		withdrawal := pendingWithdrawal(TestUserID, 3000)
		uow.WithdrawalRepo.On("GetByIDForUpdate", ctx, int64(4)).Return(withdrawal, nil)
		uow.WalletRepo.On("GetForUpdate", ctx, TestUserID, entities.WalletMain).
			Return(wallet(TestUserID, entities.WalletMain, 2000), nil)
		uow.WithdrawalRepo.On("Review", ctx, int64(4), entities.ReviewStatusApproved, TestAdminID, "paid").Return(nil)
		uow.EntryRepo.On("Create", ctx, mock.MatchedBy(func(e *entities.LedgerEntry) bool {
			return e.Kind == entities.EntryKindWithdrawal && e.To == nil &&
				e.From.UserID == TestUserID && e.Amount == 3000
		})).Return(nil)
		uow.WalletRepo.On("Get", ctx, TestUserID, entities.WalletMain).
			Return(wallet(TestUserID, entities.WalletMain, 2000), nil)

		result, err := service.DecideWithdrawal(ctx, testAdmin, 4, true, "paid")
		require.NoError(t, err)
		assert.Equal(t, entities.ReviewStatusApproved, result.Withdrawal.Status)
		// Approval applies no wallet delta; the hold already left main
		assert.Equal(t, int64(2000), result.NewMainBalance)
		assertUoWExpectations(t, uow)
	})

	t.Run("rejection refunds the hold", func(t *testing.T) {
		uow, factory := newTestUoW()
		service := NewPaymentService(factory, new(testhelpers.MockKycVerifier))

		withdrawal := pendingWithdrawal(TestUserID, 3000)
		uow.WithdrawalRepo.On("GetByIDForUpdate", ctx, int64(4)).Return(withdrawal, nil)
		uow.WalletRepo.On("GetForUpdate", ctx, TestUserID, entities.WalletMain).
			Return(wallet(TestUserID, entities.WalletMain, 2000), nil)
		uow.WithdrawalRepo.On("Review", ctx, int64(4), entities.ReviewStatusRejected, TestAdminID, "name mismatch").Return(nil)
		uow.WalletRepo.On("ApplyDelta", ctx, TestUserID, entities.WalletMain, int64(3000)).
			Return(int64(5000), nil)

		result, err := service.DecideWithdrawal(ctx, testAdmin, 4, false, "name mismatch")
		require.NoError(t, err)
		assert.Equal(t, entities.ReviewStatusRejected, result.Withdrawal.Status)
		assert.Equal(t, int64(5000), result.NewMainBalance)
		assert.Nil(t, result.Entry)

		uow.EntryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assertUoWExpectations(t, uow)
	})

	t.Run("second decision fails with already settled", func(t *testing.T) {
		uow, factory := newTestUoW()
		service := NewPaymentService(factory, new(testhelpers.MockKycVerifier))

		decided := pendingWithdrawal(TestUserID, 3000)
		decided.Status = entities.ReviewStatusRejected
		uow.WithdrawalRepo.On("GetByIDForUpdate", ctx, int64(4)).Return(decided, nil)

		_, err := service.DecideWithdrawal(ctx, testAdmin, 4, true, "")
		assert.True(t, errors.Is(err, domain.ErrAlreadySettled))
		assert.False(t, uow.Committed)
	})
}
