package interfaces

import (
	"context"

	"karnalix/domain/events"
)

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher holds events until the enclosing unit of
// work commits, then flushes them; rollback discards them.
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all pending events after a successful commit
	Flush(ctx context.Context) error

	// Discard drops all pending events on rollback
	Discard()
}

// UnitOfWork represents one atomic ledger operation: every repository
// returned by it shares a single database transaction, and buffered
// events are published only after Commit succeeds.
type UnitOfWork interface {
	// Begin starts the transaction and binds the repositories to it
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback aborts the transaction and discards pending events.
	// Safe to defer; a no-op after Commit.
	Rollback() error

	// UserRepository returns the user repository for this unit of work
	UserRepository() UserRepository

	// WalletRepository returns the wallet repository for this unit of work
	WalletRepository() WalletRepository

	// LedgerEntryRepository returns the ledger entry repository for this unit of work
	LedgerEntryRepository() LedgerEntryRepository

	// BetRepository returns the bet repository for this unit of work
	BetRepository() BetRepository

	// DepositRepository returns the deposit repository for this unit of work
	DepositRepository() DepositRepository

	// WithdrawalRepository returns the withdrawal repository for this unit of work
	WithdrawalRepository() WithdrawalRepository

	// EventBus returns the transactional event publisher for this unit of work
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
