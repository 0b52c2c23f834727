package repository

import (
	"context"
	"fmt"

	"karnalix/database"
	"karnalix/domain"
	"karnalix/domain/entities"

	"github.com/jackc/pgx/v5"
)

// WalletRepository implements the WalletRepository interface
type WalletRepository struct {
	q Queryable
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *database.DB) *WalletRepository {
	return &WalletRepository{q: db.Pool}
}

// newWalletRepository creates a new wallet repository bound to a transaction
func newWalletRepository(tx Queryable) *WalletRepository {
	return &WalletRepository{q: tx}
}

// Get retrieves one wallet without locking it
func (r *WalletRepository) Get(ctx context.Context, userID int64, kind entities.WalletKind) (*entities.Wallet, error) {
	return r.get(ctx, userID, kind, false)
}

// GetForUpdate retrieves one wallet and row-locks it for the enclosing
// transaction. A lock wait past the configured lock_timeout surfaces as Busy.
func (r *WalletRepository) GetForUpdate(ctx context.Context, userID int64, kind entities.WalletKind) (*entities.Wallet, error) {
	return r.get(ctx, userID, kind, true)
}

func (r *WalletRepository) get(ctx context.Context, userID int64, kind entities.WalletKind, forUpdate bool) (*entities.Wallet, error) {
	query := `
		SELECT user_id, kind, balance, created_at, updated_at
		FROM wallets
		WHERE user_id = $1 AND kind = $2
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var wallet entities.Wallet
	err := r.q.QueryRow(ctx, query, userID, kind).Scan(
		&wallet.UserID,
		&wallet.Kind,
		&wallet.Balance,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, domain.NewError(domain.CodeNotFound, "wallet %d/%s not found", userID, kind)
	}
	if err != nil {
		if translated := translateLockError(err); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to get wallet %d/%s: %w", userID, kind, err)
	}

	return &wallet, nil
}

// GetBalances returns all three wallet balances for a user
func (r *WalletRepository) GetBalances(ctx context.Context, userID int64) (*entities.BalanceSummary, error) {
	query := `
		SELECT kind, balance
		FROM wallets
		WHERE user_id = $1
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances for user %d: %w", userID, err)
	}
	defer rows.Close()

	summary := &entities.BalanceSummary{UserID: userID}
	found := false
	for rows.Next() {
		var kind entities.WalletKind
		var balance int64
		if err := rows.Scan(&kind, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan wallet balance: %w", err)
		}
		found = true
		switch kind {
		case entities.WalletMain:
			summary.Main = balance
		case entities.WalletBonus:
			summary.Bonus = balance
		case entities.WalletLocked:
			summary.Locked = balance
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.NewError(domain.CodeNotFound, "no wallets for user %d", userID)
	}

	return summary, nil
}

// CreateSet creates the three zero-balance wallets for a new user
func (r *WalletRepository) CreateSet(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO wallets (user_id, kind, balance)
		VALUES ($1, 'main', 0), ($1, 'bonus', 0), ($1, 'locked', 0)
	`

	if _, err := r.q.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to create wallet set for user %d: %w", userID, err)
	}

	return nil
}

// ApplyDelta adjusts a wallet balance by a signed amount and returns the
// new balance. The WHERE clause rejects any delta that would drive the
// balance negative, so the check and the write are one statement.
func (r *WalletRepository) ApplyDelta(ctx context.Context, userID int64, kind entities.WalletKind, delta int64) (int64, error) {
	query := `
		UPDATE wallets
		SET balance = balance + $3, updated_at = NOW()
		WHERE user_id = $1 AND kind = $2 AND balance + $3 >= 0
		RETURNING balance
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, userID, kind, delta).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		// Either the wallet is missing or the delta would overdraw it
		if _, getErr := r.Get(ctx, userID, kind); getErr != nil {
			return 0, getErr
		}
		return 0, domain.NewError(domain.CodeInsufficientFunds,
			"wallet %d/%s cannot absorb delta %d", userID, kind, delta)
	}
	if err != nil {
		if translated := translateLockError(err); translated != err {
			return 0, translated
		}
		return 0, fmt.Errorf("failed to apply delta to wallet %d/%s: %w", userID, kind, err)
	}

	return newBalance, nil
}

// SumBalances returns the total of every wallet balance in the book
func (r *WalletRepository) SumBalances(ctx context.Context) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(balance), 0) FROM wallets`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum wallet balances: %w", err)
	}
	return total, nil
}
