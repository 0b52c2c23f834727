package services

import (
	"context"
	"errors"
	"testing"

	"karnalix/domain"
	"karnalix/domain/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func transferEntry(id, fromUserID, toUserID, amount int64) *entities.LedgerEntry {
	return &entities.LedgerEntry{
		ID:        id,
		Reference: uuid.New(),
		Kind:      entities.EntryKindTransfer,
		From:      &entities.AccountRef{UserID: fromUserID, Kind: entities.WalletMain},
		To:        &entities.AccountRef{UserID: toUserID, Kind: entities.WalletMain},
		Amount:    amount,
		Status:    entities.EntryStatusCompleted,
	}
}

func TestAuditService_ListEntries(t *testing.T) {
	ctx := context.Background()

	t.Run("admin sees everything", func(t *testing.T) {
		uow, factory := newTestUoW()
		service := NewAuditService(factory)

		filter := entities.EntryFilter{Limit: 10}
		uow.EntryRepo.On("List", ctx, filter, []int64(nil)).
			Return([]*entities.LedgerEntry{transferEntry(1, TestAgentID, TestUserID, 100)}, nil)

		entries, err := service.ListEntries(ctx, testAdmin, filter)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
		assertUoWExpectations(t, uow)
	})

	t.Run("user scoped to own entries", func(t *testing.T) {
		uow, factory := newTestUoW()
		service := NewAuditService(factory)

		filter := entities.EntryFilter{}
		uow.EntryRepo.On("List", ctx, filter, []int64{TestUserID}).
			Return([]*entities.LedgerEntry{}, nil)

		_, err := service.ListEntries(ctx, testUser, filter)
		require.NoError(t, err)
		assertUoWExpectations(t, uow)
	})

	t.Run("agent scoped to created users", func(t *testing.T) {
		uow, factory := newTestUoW()
		service := NewAuditService(factory)

		uow.UserRepo.On("GetCreatedUserIDs", ctx, TestAgentID).
			Return([]int64{TestUserID, TestUser2ID}, nil)
		filter := entities.EntryFilter{}
		uow.EntryRepo.On("List", ctx, filter, []int64{TestAgentID, TestUserID, TestUser2ID}).
			Return([]*entities.LedgerEntry{}, nil)

		_, err := service.ListEntries(ctx, testAgent, filter)
		require.NoError(t, err)
		assertUoWExpectations(t, uow)
	})
}

func TestAuditService_GetEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("visible entry returned", func(t *testing.T) {
		uow, factory := newTestUoW()
		service := NewAuditService(factory)

		uow.EntryRepo.On("GetByID", ctx, int64(9)).
			Return(transferEntry(9, TestAgentID, TestUserID, 100), nil)

		entry, err := service.GetEntry(ctx, testUser, 9)
		require.NoError(t, err)
		assert.Equal(t, int64(9), entry.ID)
	})

	t.Run("entry outside scope reads as not found", func(t *testing.T) {
		uow, factory := newTestUoW()
		service := NewAuditService(factory)

		uow.EntryRepo.On("GetByID", ctx, int64(9)).
			Return(transferEntry(9, TestAgentID, TestUser2ID, 100), nil)

		_, err := service.GetEntry(ctx, testUser, 9)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("missing entry", func(t *testing.T) {
		uow, factory := newTestUoW()
		service := NewAuditService(factory)

		uow.EntryRepo.On("GetByID", ctx, int64(404)).Return(nil, nil)

		_, err := service.GetEntry(ctx, testAdmin, 404)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestAuditService_ReverseEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("writes compensating entry and undoes wallet effects", func(t *testing.T) {
		uow, factory := newTestUoW()
		service := NewAuditService(factory)

		original := transferEntry(9, TestAgentID, TestUserID, 100)
		uow.EntryRepo.On("GetByID", ctx, int64(9)).Return(original, nil)
		uow.WalletRepo.On("GetForUpdate", ctx, TestAgentID, entities.WalletMain).
			Return(wallet(TestAgentID, entities.WalletMain, 900), nil)
		uow.WalletRepo.On("GetForUpdate", ctx, TestUserID, entities.WalletMain).
			Return(wallet(TestUserID, entities.WalletMain, 100), nil)
		uow.EntryRepo.On("MarkReversed", ctx, int64(9)).Return(nil)
		uow.WalletRepo.On("ApplyDelta", ctx, TestUserID, entities.WalletMain, int64(-100)).
			Return(int64(0), nil)
		uow.WalletRepo.On("ApplyDelta", ctx, TestAgentID, entities.WalletMain, int64(100)).
			Return(int64(1000), nil)
		uow.EntryRepo.On("Create", ctx, mock.MatchedBy(func(e *entities.LedgerEntry) bool {
			return e.Kind == entities.EntryKindTransfer &&
				e.From.UserID == TestUserID && e.To.UserID == TestAgentID &&
				e.Amount == 100 && e.Metadata["reverses_entry_id"] == int64(9)
		})).Return(nil)

		result, err := service.ReverseEntry(ctx, testMasterAdmin, 9, "operator error")
		require.NoError(t, err)
		assert.Equal(t, entities.EntryStatusReversed, result.Original.Status)
		assert.Equal(t, "operator error", result.Compensating.Description)
		assert.True(t, uow.Committed)
		assertUoWExpectations(t, uow)
	})

	t.Run("reverses a mint by debiting the recipient", func(t *testing.T) {
		uow, factory := newTestUoW()
		service := NewAuditService(factory)

		original := &entities.LedgerEntry{
			ID: 12, Reference: uuid.New(), Kind: entities.EntryKindMint,
			To:     &entities.AccountRef{UserID: TestUserID, Kind: entities.WalletMain},
			Amount: 5000, Status: entities.EntryStatusCompleted,
		}
		uow.EntryRepo.On("GetByID", ctx, int64(12)).Return(original, nil)
		uow.WalletRepo.On("GetForUpdate", ctx, TestUserID, entities.WalletMain).
			Return(wallet(TestUserID, entities.WalletMain, 5000), nil)
		uow.EntryRepo.On("MarkReversed", ctx, int64(12)).Return(nil)
		uow.WalletRepo.On("ApplyDelta", ctx, TestUserID, entities.WalletMain, int64(-5000)).
			Return(int64(0), nil)
		uow.EntryRepo.On("Create", ctx, mock.MatchedBy(func(e *entities.LedgerEntry) bool {
			return e.Kind == entities.EntryKindMint && e.To == nil &&
				e.From.UserID == TestUserID && e.Amount == 5000
		})).Return(nil)

		_, err := service.ReverseEntry(ctx, testMasterAdmin, 12, "fat finger")
		require.NoError(t, err)
		assertUoWExpectations(t, uow)
	})

	t.Run("only master admin may reverse", func(t *testing.T) {
		for _, actor := range []entities.Principal{testAdmin, testAgent, testUser} {
			uow, factory := newTestUoW()
			service := NewAuditService(factory)

			_, err := service.ReverseEntry(ctx, actor, 9, "because")
			assert.True(t, errors.Is(err, domain.ErrPermissionDenied), "role %s", actor.Role)
			assert.False(t, uow.Began)
		}
	})

	t.Run("already reversed", func(t *testing.T) {
		uow, factory := newTestUoW()
		service := NewAuditService(factory)

		original := transferEntry(9, TestAgentID, TestUserID, 100)
		original.Status = entities.EntryStatusReversed
		uow.EntryRepo.On("GetByID", ctx, int64(9)).Return(original, nil)

		_, err := service.ReverseEntry(ctx, testMasterAdmin, 9, "again")
		assert.True(t, errors.Is(err, domain.ErrAlreadySettled))
		assert.False(t, uow.Committed)
	})

	t.Run("spent funds block the reversal", func(t *testing.T) {
		uow, factory := newTestUoW()
		service := NewAuditService(factory)

		original := transferEntry(9, TestAgentID, TestUserID, 100)
		uow.EntryRepo.On("GetByID", ctx, int64(9)).Return(original, nil)
		uow.WalletRepo.On("GetForUpdate", ctx, TestAgentID, entities.WalletMain).
			Return(wallet(TestAgentID, entities.WalletMain, 900), nil)
		uow.WalletRepo.On("GetForUpdate", ctx, TestUserID, entities.WalletMain).
			Return(wallet(TestUserID, entities.WalletMain, 30), nil)
		uow.EntryRepo.On("MarkReversed", ctx, int64(9)).Return(nil)
		uow.WalletRepo.On("ApplyDelta", ctx, TestUserID, entities.WalletMain, int64(-100)).
			Return(int64(0), domain.NewError(domain.CodeInsufficientFunds, "short"))

		_, err := service.ReverseEntry(ctx, testMasterAdmin, 9, "undo")
		assert.True(t, errors.Is(err, domain.ErrInsufficientFunds))
		assert.False(t, uow.Committed)
	})
}

func TestAuditService_GetBalances(t *testing.T) {
	ctx := context.Background()

	t.Run("self always visible", func(t *testing.T) {
		uow, factory := newTestUoW()
		service := NewAuditService(factory)

		uow.WalletRepo.On("GetBalances", ctx, TestUserID).
			Return(&entities.BalanceSummary{UserID: TestUserID, Main: 500}, nil)

		balances, err := service.GetBalances(ctx, testUser, TestUserID)
		require.NoError(t, err)
		assert.Equal(t, int64(500), balances.Main)
	})

	t.Run("user cannot read another user", func(t *testing.T) {
		_, factory := newTestUoW()
		service := NewAuditService(factory)

		_, err := service.GetBalances(ctx, testUser, TestUser2ID)
		assert.True(t, errors.Is(err, domain.ErrPermissionDenied))
	})

	t.Run("agent limited to created users", func(t *testing.T) {
		uow, factory := newTestUoW()
		service := NewAuditService(factory)

		uow.UserRepo.On("GetCreatedUserIDs", ctx, TestAgentID).
			Return([]int64{TestUserID}, nil)

		_, err := service.GetBalances(ctx, testAgent, TestUser2ID)
		assert.True(t, errors.Is(err, domain.ErrPermissionDenied))
	})
}
