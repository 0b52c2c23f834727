package entities

import (
	"time"

	"github.com/google/uuid"
)

// EntryKind represents the type of value movement a ledger entry records
type EntryKind string

// All entry kinds supported by the ledger
const (
	EntryKindMint       EntryKind = "mint"
	EntryKindTransfer   EntryKind = "transfer"
	EntryKindBetStake   EntryKind = "bet_stake"
	EntryKindBetWin     EntryKind = "bet_win"
	EntryKindBetLoss    EntryKind = "bet_loss"
	EntryKindBetRefund  EntryKind = "bet_refund"
	EntryKindDeposit    EntryKind = "deposit"
	EntryKindWithdrawal EntryKind = "withdrawal"
	EntryKindBonus      EntryKind = "bonus"
	EntryKindReferral   EntryKind = "referral"
	EntryKindCommission EntryKind = "commission"
)

// IsBetRelated returns true if the kind belongs to the bet-escrow flow
func (k EntryKind) IsBetRelated() bool {
	return k == EntryKindBetStake || k == EntryKindBetWin ||
		k == EntryKindBetLoss || k == EntryKindBetRefund
}

// IsSystemIssuance returns true for kinds that create value from nothing
func (k EntryKind) IsSystemIssuance() bool {
	return k == EntryKindMint || k == EntryKindDeposit ||
		k == EntryKindBonus || k == EntryKindReferral || k == EntryKindCommission
}

// String returns the string representation of the entry kind
func (k EntryKind) String() string {
	return string(k)
}

// EntryStatus represents the lifecycle state of a ledger entry
type EntryStatus string

const (
	EntryStatusCompleted EntryStatus = "completed"
	EntryStatusReversed  EntryStatus = "reversed"
)

// LedgerEntry is the immutable record of one value movement.
// A nil From denotes system issuance; a nil To denotes funds leaving
// the system (withdrawal payout or destroyed bet stake).
type LedgerEntry struct {
	ID          int64          `db:"id"`
	Reference   uuid.UUID      `db:"reference"`
	From        *AccountRef    `db:"-"`
	To          *AccountRef    `db:"-"`
	Amount      int64          `db:"amount"`
	Kind        EntryKind      `db:"kind"`
	Status      EntryStatus    `db:"status"`
	Description string         `db:"description"`
	Metadata    map[string]any `db:"metadata"`
	CreatedBy   *int64         `db:"created_by"`
	CreatedAt   time.Time      `db:"created_at"`
}

// Touches returns true if the entry credits or debits any wallet of userID
func (e *LedgerEntry) Touches(userID int64) bool {
	if e.From != nil && e.From.UserID == userID {
		return true
	}
	if e.To != nil && e.To.UserID == userID {
		return true
	}
	return false
}

// SignedAmountFor returns the net effect of this entry on userID's wallets:
// positive for a credit, negative for a debit, zero when both sides belong
// to the same user (internal escrow moves).
func (e *LedgerEntry) SignedAmountFor(userID int64) int64 {
	var net int64
	if e.To != nil && e.To.UserID == userID {
		net += e.Amount
	}
	if e.From != nil && e.From.UserID == userID {
		net -= e.Amount
	}
	return net
}

// EntryFilter narrows audit trail queries
type EntryFilter struct {
	Kind   *EntryKind
	UserID *int64
	Since  *time.Time
	Until  *time.Time
	Limit  int
}
