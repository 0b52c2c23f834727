package repository

import (
	"context"
	"fmt"

	"karnalix/database"
	"karnalix/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	lockTimeoutMillis      int64
	transactionalPublisher interfaces.TransactionalEventPublisher
	userRepo               interfaces.UserRepository
	walletRepo             interfaces.WalletRepository
	ledgerEntryRepo        interfaces.LedgerEntryRepository
	betRepo                interfaces.BetRepository
	depositRepo            interfaces.DepositRepository
	withdrawalRepo         interfaces.WithdrawalRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. lockTimeoutMillis
// bounds how long any statement inside a unit of work waits on a row lock
// before failing with a retryable busy error.
func NewUnitOfWorkFactory(db *database.DB, lockTimeoutMillis int64, newPublisher func() interfaces.TransactionalEventPublisher) *unitOfWorkFactory {
	return &unitOfWorkFactory{
		db:                db,
		lockTimeoutMillis: lockTimeoutMillis,
		newPublisher:      newPublisher,
	}
}

type unitOfWorkFactory struct {
	db                *database.DB
	lockTimeoutMillis int64
	newPublisher      func() interfaces.TransactionalEventPublisher
}

// Create creates a new UnitOfWork with a fresh transactional publisher
func (f *unitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		lockTimeoutMillis:      f.lockTimeoutMillis,
		transactionalPublisher: f.newPublisher(),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Bound lock waits for every statement in this transaction. A wait
	// that exceeds the timeout fails with 55P03, which the repositories
	// translate to a retryable busy error.
	if u.lockTimeoutMillis > 0 {
		setTimeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.lockTimeoutMillis)
		if _, err := tx.Exec(ctx, setTimeout); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to set lock timeout: %w", err)
		}
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories bound to the transaction
	u.userRepo = newUserRepository(tx)
	u.walletRepo = newWalletRepository(tx)
	u.ledgerEntryRepo = newLedgerEntryRepository(tx)
	u.betRepo = newBetRepository(tx)
	u.depositRepo = newDepositRepository(tx)
	u.withdrawalRepo = newWithdrawalRepository(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

// WalletRepository returns the wallet repository for this unit of work
func (u *unitOfWork) WalletRepository() interfaces.WalletRepository {
	if u.walletRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.walletRepo
}

// LedgerEntryRepository returns the ledger entry repository for this unit of work
func (u *unitOfWork) LedgerEntryRepository() interfaces.LedgerEntryRepository {
	if u.ledgerEntryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ledgerEntryRepo
}

// BetRepository returns the bet repository for this unit of work
func (u *unitOfWork) BetRepository() interfaces.BetRepository {
	if u.betRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.betRepo
}

// DepositRepository returns the deposit repository for this unit of work
func (u *unitOfWork) DepositRepository() interfaces.DepositRepository {
	if u.depositRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.depositRepo
}

// WithdrawalRepository returns the withdrawal repository for this unit of work
func (u *unitOfWork) WithdrawalRepository() interfaces.WithdrawalRepository {
	if u.withdrawalRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.withdrawalRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalPublisher
}
