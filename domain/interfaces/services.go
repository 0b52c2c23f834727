package interfaces

import (
	"context"

	"karnalix/domain/entities"
)

// LedgerService defines the interface for direct value movements
type LedgerService interface {
	// Mint issues new coins into a user's main wallet (master admin only)
	Mint(ctx context.Context, actor entities.Principal, toUserID int64, amount int64, description string) (*entities.MintResult, error)

	// Transfer moves coins down the hierarchy from the actor's wallet to
	// the target's wallet of the same kind
	Transfer(ctx context.Context, actor entities.Principal, toUserID int64, amount int64, kind entities.WalletKind, description string) (*entities.TransferResult, error)

	// GrantBonus credits a user's bonus wallet from system issuance (admin+)
	GrantBonus(ctx context.Context, actor entities.Principal, toUserID int64, amount int64, description string) (*entities.MintResult, error)

	// GrantReferralReward credits a referrer's bonus wallet for bringing
	// in a new user
	GrantReferralReward(ctx context.Context, referrerID, newUserID int64, amount int64) (*entities.MintResult, error)
}

// BettingService defines the interface for the bet-escrow state machine
type BettingService interface {
	// PlaceBet escrows a stake from main to locked and creates a pending bet
	PlaceBet(ctx context.Context, principal entities.Principal, gameID string, stake, potentialWin int64) (*entities.PlaceBetResult, error)

	// SettleBet resolves a pending bet as won or lost (admin+)
	SettleBet(ctx context.Context, actor entities.Principal, betID int64, outcome entities.BetOutcome, winAmount int64) (*entities.SettleBetResult, error)

	// CancelBet refunds a pending bet's stake back to main (admin+)
	CancelBet(ctx context.Context, actor entities.Principal, betID int64, reason string) (*entities.SettleBetResult, error)

	// ListBets returns bets visible to the principal under rank scoping
	ListBets(ctx context.Context, principal entities.Principal, status *entities.BetStatus, limit int) ([]*entities.Bet, error)
}

// PaymentService defines the interface for deposit and withdrawal review flows
type PaymentService interface {
	// RequestDeposit creates a pending deposit with no ledger effect
	RequestDeposit(ctx context.Context, principal entities.Principal, amount int64, paymentMethod, notes string) (*entities.Deposit, error)

	// ApproveDeposit credits the depositor's main wallet and pays the
	// creating agent's commission, if configured (admin+)
	ApproveDeposit(ctx context.Context, actor entities.Principal, depositID int64, notes string) (*entities.DepositDecisionResult, error)

	// RejectDeposit marks a pending deposit rejected; no ledger effect (admin+)
	RejectDeposit(ctx context.Context, actor entities.Principal, depositID int64, notes string) (*entities.Deposit, error)

	// RequestWithdrawal debits main immediately and holds the amount
	// pending review; requires KYC eligibility
	RequestWithdrawal(ctx context.Context, principal entities.Principal, amount int64, paymentMethod, accountDetails string) (*entities.WithdrawalRequestResult, error)

	// DecideWithdrawal approves (funds leave the system) or rejects
	// (hold refunded) a pending withdrawal (admin+)
	DecideWithdrawal(ctx context.Context, actor entities.Principal, withdrawalID int64, approve bool, notes string) (*entities.WithdrawalDecisionResult, error)

	// ListDeposits returns deposits visible to the principal under rank scoping
	ListDeposits(ctx context.Context, principal entities.Principal, status *entities.ReviewStatus, limit int) ([]*entities.Deposit, error)

	// ListWithdrawals returns withdrawals visible to the principal under rank scoping
	ListWithdrawals(ctx context.Context, principal entities.Principal, status *entities.ReviewStatus, limit int) ([]*entities.Withdrawal, error)
}

// AccountService defines the interface for account provisioning
type AccountService interface {
	// CreateAccount creates a user and its three zero-balance wallets
	// atomically; the actor may only create roles below its own rank
	CreateAccount(ctx context.Context, actor entities.Principal, username string, role entities.Role, referrerID *int64) (*entities.User, error)
}

// AuditService defines the interface for the queryable audit trail
type AuditService interface {
	// ListEntries returns ledger entries visible to the principal under
	// rank scoping
	ListEntries(ctx context.Context, principal entities.Principal, filter entities.EntryFilter) ([]*entities.LedgerEntry, error)

	// GetEntry returns one entry if the principal may see it
	GetEntry(ctx context.Context, principal entities.Principal, entryID int64) (*entities.LedgerEntry, error)

	// ReverseEntry writes a compensating entry and marks the original
	// reversed (master admin only); rows are never edited
	ReverseEntry(ctx context.Context, actor entities.Principal, entryID int64, reason string) (*entities.ReverseResult, error)

	// GetBalances returns a user's wallet balances if the principal may
	// see them
	GetBalances(ctx context.Context, principal entities.Principal, userID int64) (*entities.BalanceSummary, error)
}
