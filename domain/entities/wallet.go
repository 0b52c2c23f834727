package entities

import (
	"fmt"
	"time"
)

// WalletKind identifies one of the three wallets every user owns
type WalletKind string

const (
	WalletMain   WalletKind = "main"
	WalletBonus  WalletKind = "bonus"
	WalletLocked WalletKind = "locked"
)

// AllWalletKinds lists the wallet set created for every new user
var AllWalletKinds = []WalletKind{WalletMain, WalletBonus, WalletLocked}

// ordinal gives wallet kinds a stable order for lock acquisition
var walletKindOrdinals = map[WalletKind]int{
	WalletMain:   0,
	WalletBonus:  1,
	WalletLocked: 2,
}

// IsValid returns true if the kind is one of the three known wallet kinds
func (k WalletKind) IsValid() bool {
	_, ok := walletKindOrdinals[k]
	return ok
}

// String returns the string representation of the wallet kind
func (k WalletKind) String() string {
	return string(k)
}

// Wallet holds one balance record per (user, kind) pair.
// Balances are int64 minor units and are mutated only by the ledger engine.
type Wallet struct {
	UserID    int64      `db:"user_id"`
	Kind      WalletKind `db:"kind"`
	Balance   int64      `db:"balance"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// CanAfford returns true if the wallet holds at least amount
func (w *Wallet) CanAfford(amount int64) bool {
	return w.Balance >= amount
}

// AccountRef identifies one wallet as the source or destination of a ledger entry
type AccountRef struct {
	UserID int64      `db:"user_id"`
	Kind   WalletKind `db:"kind"`
}

// Less orders account refs by (user_id, kind) so multi-account operations
// always acquire row locks in the same order.
func (a AccountRef) Less(other AccountRef) bool {
	if a.UserID != other.UserID {
		return a.UserID < other.UserID
	}
	return walletKindOrdinals[a.Kind] < walletKindOrdinals[other.Kind]
}

// String returns a human-readable account identifier
func (a AccountRef) String() string {
	return fmt.Sprintf("%d/%s", a.UserID, a.Kind)
}

// BalanceSummary is the per-user view across all three wallets
type BalanceSummary struct {
	UserID int64
	Main   int64
	Bonus  int64
	Locked int64
}

// Total returns the spendable total (main + bonus, excluding escrowed funds)
func (b *BalanceSummary) Total() int64 {
	return b.Main + b.Bonus
}

// Sum returns the full holdings including escrowed funds
func (b *BalanceSummary) Sum() int64 {
	return b.Main + b.Bonus + b.Locked
}
