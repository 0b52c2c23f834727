package interfaces

import (
	"context"

	"karnalix/domain/entities"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by its ID
	GetByID(ctx context.Context, id int64) (*entities.User, error)

	// Create creates a new user record
	Create(ctx context.Context, username string, role entities.Role, createdBy *int64) (*entities.User, error)

	// GetCreatedUserIDs returns the IDs of users directly created by creatorID
	GetCreatedUserIDs(ctx context.Context, creatorID int64) ([]int64, error)

	// SetKycApproved updates a user's KYC approval flag
	SetKycApproved(ctx context.Context, id int64, approved bool) error
}

// WalletRepository defines the interface for wallet balance access.
// ApplyDelta is only safe inside a unit of work after the affected rows
// have been locked with GetForUpdate.
type WalletRepository interface {
	// Get retrieves one wallet without locking it
	Get(ctx context.Context, userID int64, kind entities.WalletKind) (*entities.Wallet, error)

	// GetForUpdate retrieves one wallet and row-locks it for the
	// enclosing transaction
	GetForUpdate(ctx context.Context, userID int64, kind entities.WalletKind) (*entities.Wallet, error)

	// GetBalances returns all three wallet balances for a user
	GetBalances(ctx context.Context, userID int64) (*entities.BalanceSummary, error)

	// CreateSet creates the three zero-balance wallets for a new user
	CreateSet(ctx context.Context, userID int64) error

	// ApplyDelta adjusts a wallet balance by a signed amount and returns
	// the new balance; a delta that would drive the balance negative
	// fails with InsufficientFunds
	ApplyDelta(ctx context.Context, userID int64, kind entities.WalletKind, delta int64) (int64, error)

	// SumBalances returns the total of every wallet balance in the book
	SumBalances(ctx context.Context) (int64, error)
}

// LedgerEntryRepository defines the interface for the append-only audit trail
type LedgerEntryRepository interface {
	// Create appends a new ledger entry and fills in its ID and timestamps
	Create(ctx context.Context, entry *entities.LedgerEntry) error

	// GetByID retrieves an entry by its ID
	GetByID(ctx context.Context, id int64) (*entities.LedgerEntry, error)

	// List returns entries matching the filter, newest first. When
	// visibleUserIDs is non-nil, only entries touching those users'
	// accounts are returned.
	List(ctx context.Context, filter entities.EntryFilter, visibleUserIDs []int64) ([]*entities.LedgerEntry, error)

	// MarkReversed flips an entry's status to reversed. Used only while
	// writing the compensating entry in the same unit of work.
	MarkReversed(ctx context.Context, id int64) error

	// SumIssuanceNet returns total issuance minus total destruction
	// across all entries
	SumIssuanceNet(ctx context.Context) (int64, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// Create creates a new bet record
	Create(ctx context.Context, bet *entities.Bet) error

	// GetByID retrieves a bet by its ID
	GetByID(ctx context.Context, id int64) (*entities.Bet, error)

	// GetByIDForUpdate retrieves a bet and row-locks it for the
	// enclosing transaction
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Bet, error)

	// Settle records the terminal state of a bet
	Settle(ctx context.Context, id int64, status entities.BetStatus, actualWin int64) error

	// ListByUsers returns bets for the given users, newest first.
	// A nil userIDs slice means no user restriction.
	ListByUsers(ctx context.Context, userIDs []int64, status *entities.BetStatus, limit int) ([]*entities.Bet, error)
}

// DepositRepository defines the interface for deposit request data access
type DepositRepository interface {
	// Create creates a new pending deposit request
	Create(ctx context.Context, deposit *entities.Deposit) error

	// GetByIDForUpdate retrieves a deposit and row-locks it for the
	// enclosing transaction
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Deposit, error)

	// Review records an admin decision on a deposit
	Review(ctx context.Context, id int64, status entities.ReviewStatus, reviewedBy int64, notes string) error

	// ListByUsers returns deposits for the given users, newest first.
	// A nil userIDs slice means no user restriction.
	ListByUsers(ctx context.Context, userIDs []int64, status *entities.ReviewStatus, limit int) ([]*entities.Deposit, error)
}

// WithdrawalRepository defines the interface for withdrawal request data access
type WithdrawalRepository interface {
	// Create creates a new pending withdrawal request
	Create(ctx context.Context, withdrawal *entities.Withdrawal) error

	// GetByIDForUpdate retrieves a withdrawal and row-locks it for the
	// enclosing transaction
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Withdrawal, error)

	// Review records an admin decision on a withdrawal
	Review(ctx context.Context, id int64, status entities.ReviewStatus, reviewedBy int64, notes string) error

	// ListByUsers returns withdrawals for the given users, newest first.
	// A nil userIDs slice means no user restriction.
	ListByUsers(ctx context.Context, userIDs []int64, status *entities.ReviewStatus, limit int) ([]*entities.Withdrawal, error)

	// SumPendingHolds returns the total amount held by withdrawals
	// still awaiting review
	SumPendingHolds(ctx context.Context) (int64, error)
}
