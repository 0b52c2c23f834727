package entities

// Result payloads returned by ledger operations. Each carries the entry
// that was written plus the balances the caller most likely needs next.

// MintResult is returned by mint and grant operations
type MintResult struct {
	Entry      *LedgerEntry
	NewBalance int64
}

// TransferResult is returned by hierarchy transfers
type TransferResult struct {
	Entry       *LedgerEntry
	FromBalance int64
	ToBalance   int64
}

// PlaceBetResult is returned when a stake has been escrowed
type PlaceBetResult struct {
	Bet      *Bet
	Entry    *LedgerEntry
	Balances *BalanceSummary
}

// SettleBetResult is returned by bet settlement and cancellation
type SettleBetResult struct {
	Bet      *Bet
	Entry    *LedgerEntry
	Balances *BalanceSummary
}

// WithdrawalRequestResult is returned when a withdrawal hold is placed
type WithdrawalRequestResult struct {
	Withdrawal     *Withdrawal
	NewMainBalance int64
}

// DepositDecisionResult is returned when a deposit is approved
type DepositDecisionResult struct {
	Deposit        *Deposit
	Entry          *LedgerEntry
	NewMainBalance int64
}

// WithdrawalDecisionResult is returned when a withdrawal is decided
type WithdrawalDecisionResult struct {
	Withdrawal     *Withdrawal
	Entry          *LedgerEntry
	NewMainBalance int64
}

// ReverseResult is returned when an entry is reversed
type ReverseResult struct {
	Original     *LedgerEntry
	Compensating *LedgerEntry
}
