package testhelpers

import (
	"context"

	"karnalix/domain/entities"
	"karnalix/domain/events"
	"karnalix/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, username string, role entities.Role, createdBy *int64) (*entities.User, error) {
	args := m.Called(ctx, username, role, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetCreatedUserIDs(ctx context.Context, creatorID int64) ([]int64, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockUserRepository) SetKycApproved(ctx context.Context, id int64, approved bool) error {
	args := m.Called(ctx, id, approved)
	return args.Error(0)
}

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Get(ctx context.Context, userID int64, kind entities.WalletKind) (*entities.Wallet, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetForUpdate(ctx context.Context, userID int64, kind entities.WalletKind) (*entities.Wallet, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetBalances(ctx context.Context, userID int64) (*entities.BalanceSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BalanceSummary), args.Error(1)
}

func (m *MockWalletRepository) CreateSet(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockWalletRepository) ApplyDelta(ctx context.Context, userID int64, kind entities.WalletKind, delta int64) (int64, error) {
	args := m.Called(ctx, userID, kind, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletRepository) SumBalances(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockLedgerEntryRepository is a mock implementation of LedgerEntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) Create(ctx context.Context, entry *entities.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) GetByID(ctx context.Context, id int64) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) List(ctx context.Context, filter entities.EntryFilter, visibleUserIDs []int64) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, filter, visibleUserIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) MarkReversed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) SumIssuanceNet(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *entities.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, id int64) (*entities.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bet), args.Error(1)
}

func (m *MockBetRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bet), args.Error(1)
}

func (m *MockBetRepository) Settle(ctx context.Context, id int64, status entities.BetStatus, actualWin int64) error {
	args := m.Called(ctx, id, status, actualWin)
	return args.Error(0)
}

func (m *MockBetRepository) ListByUsers(ctx context.Context, userIDs []int64, status *entities.BetStatus, limit int) ([]*entities.Bet, error) {
	args := m.Called(ctx, userIDs, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bet), args.Error(1)
}

// MockDepositRepository is a mock implementation of DepositRepository
type MockDepositRepository struct {
	mock.Mock
}

func (m *MockDepositRepository) Create(ctx context.Context, deposit *entities.Deposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

func (m *MockDepositRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Deposit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Deposit), args.Error(1)
}

func (m *MockDepositRepository) Review(ctx context.Context, id int64, status entities.ReviewStatus, reviewedBy int64, notes string) error {
	args := m.Called(ctx, id, status, reviewedBy, notes)
	return args.Error(0)
}

func (m *MockDepositRepository) ListByUsers(ctx context.Context, userIDs []int64, status *entities.ReviewStatus, limit int) ([]*entities.Deposit, error) {
	args := m.Called(ctx, userIDs, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Deposit), args.Error(1)
}

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, withdrawal *entities.Withdrawal) error {
	args := m.Called(ctx, withdrawal)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Withdrawal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) Review(ctx context.Context, id int64, status entities.ReviewStatus, reviewedBy int64, notes string) error {
	args := m.Called(ctx, id, status, reviewedBy, notes)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) ListByUsers(ctx context.Context, userIDs []int64, status *entities.ReviewStatus, limit int) ([]*entities.Withdrawal, error) {
	args := m.Called(ctx, userIDs, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) SumPendingHolds(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockGameCatalog is a mock implementation of GameCatalog
type MockGameCatalog struct {
	mock.Mock
}

func (m *MockGameCatalog) GetGame(ctx context.Context, gameID string) (*entities.Game, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Game), args.Error(1)
}

// MockKycVerifier is a mock implementation of KycVerifier
type MockKycVerifier struct {
	mock.Mock
}

func (m *MockKycVerifier) IsWithdrawalEligible(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// RecordingEventPublisher captures published events for assertions.
// It satisfies TransactionalEventPublisher so it can stand in for the
// real bus inside a fake unit of work.
type RecordingEventPublisher struct {
	Events []events.Event
}

func (p *RecordingEventPublisher) Publish(event events.Event) error {
	p.Events = append(p.Events, event)
	return nil
}

func (p *RecordingEventPublisher) Flush(ctx context.Context) error { return nil }

func (p *RecordingEventPublisher) Discard() { p.Events = nil }

// FakeUnitOfWork binds mock repositories together behind the UnitOfWork
// interface. Begin, Commit and Rollback only track call state so tests
// can assert transaction discipline without a database.
type FakeUnitOfWork struct {
	UserRepo       *MockUserRepository
	WalletRepo     *MockWalletRepository
	EntryRepo      *MockLedgerEntryRepository
	BetRepo        *MockBetRepository
	DepositRepo    *MockDepositRepository
	WithdrawalRepo *MockWithdrawalRepository
	Publisher      *RecordingEventPublisher

	Began      bool
	Committed  bool
	RolledBack bool
	BeginErr   error
	CommitErr  error
}

// NewFakeUnitOfWork creates a fake unit of work with fresh mocks
func NewFakeUnitOfWork() *FakeUnitOfWork {
	return &FakeUnitOfWork{
		UserRepo:       &MockUserRepository{},
		WalletRepo:     &MockWalletRepository{},
		EntryRepo:      &MockLedgerEntryRepository{},
		BetRepo:        &MockBetRepository{},
		DepositRepo:    &MockDepositRepository{},
		WithdrawalRepo: &MockWithdrawalRepository{},
		Publisher:      &RecordingEventPublisher{},
	}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) error {
	if u.BeginErr != nil {
		return u.BeginErr
	}
	u.Began = true
	return nil
}

func (u *FakeUnitOfWork) Commit() error {
	if u.CommitErr != nil {
		return u.CommitErr
	}
	u.Committed = true
	return nil
}

func (u *FakeUnitOfWork) Rollback() error {
	if !u.Committed {
		u.RolledBack = true
		u.Publisher.Discard()
	}
	return nil
}

func (u *FakeUnitOfWork) UserRepository() interfaces.UserRepository { return u.UserRepo }

func (u *FakeUnitOfWork) WalletRepository() interfaces.WalletRepository { return u.WalletRepo }

func (u *FakeUnitOfWork) LedgerEntryRepository() interfaces.LedgerEntryRepository {
	return u.EntryRepo
}

func (u *FakeUnitOfWork) BetRepository() interfaces.BetRepository { return u.BetRepo }

func (u *FakeUnitOfWork) DepositRepository() interfaces.DepositRepository { return u.DepositRepo }

func (u *FakeUnitOfWork) WithdrawalRepository() interfaces.WithdrawalRepository {
	return u.WithdrawalRepo
}

func (u *FakeUnitOfWork) EventBus() interfaces.EventPublisher { return u.Publisher }

// FakeUoWFactory hands out the same fake unit of work every time so
// tests can set expectations before invoking the service.
type FakeUoWFactory struct {
	UoW *FakeUnitOfWork
}

func NewFakeUoWFactory(uow *FakeUnitOfWork) *FakeUoWFactory {
	return &FakeUoWFactory{UoW: uow}
}

func (f *FakeUoWFactory) Create() interfaces.UnitOfWork {
	return f.UoW
}
