package repository

import (
	"context"
	"fmt"

	"karnalix/database"
	"karnalix/domain"
	"karnalix/domain/entities"

	"github.com/jackc/pgx/v5"
)

// WithdrawalRepository implements the WithdrawalRepository interface
type WithdrawalRepository struct {
	q Queryable
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *database.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db.Pool}
}

// newWithdrawalRepository creates a new withdrawal repository bound to a transaction
func newWithdrawalRepository(tx Queryable) *WithdrawalRepository {
	return &WithdrawalRepository{q: tx}
}

// Create inserts a new pending withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *entities.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (reference, user_id, amount, payment_method, account_details, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	if withdrawal.Status == "" {
		withdrawal.Status = entities.ReviewStatusPending
	}

	err := r.q.QueryRow(ctx, query,
		withdrawal.Reference,
		withdrawal.UserID,
		withdrawal.Amount,
		withdrawal.PaymentMethod,
		withdrawal.AccountDetails,
		withdrawal.Status,
	).Scan(&withdrawal.ID, &withdrawal.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create withdrawal for user %d: %w", withdrawal.UserID, err)
	}

	return nil
}

// GetByIDForUpdate retrieves a withdrawal and row-locks it so concurrent
// decisions on the same request serialize.
func (r *WithdrawalRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Withdrawal, error) {
	query := `
		SELECT id, reference, user_id, amount, payment_method, account_details, status,
		       review_notes, reviewed_by, reviewed_at, created_at
		FROM withdrawals
		WHERE id = $1
		FOR UPDATE
	`

	var withdrawal entities.Withdrawal
	err := r.q.QueryRow(ctx, query, id).Scan(
		&withdrawal.ID,
		&withdrawal.Reference,
		&withdrawal.UserID,
		&withdrawal.Amount,
		&withdrawal.PaymentMethod,
		&withdrawal.AccountDetails,
		&withdrawal.Status,
		&withdrawal.ReviewNotes,
		&withdrawal.ReviewedBy,
		&withdrawal.ReviewedAt,
		&withdrawal.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if translated := translateLockError(err); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to get withdrawal %d: %w", id, err)
	}

	return &withdrawal, nil
}

// Review records an approve or reject decision on a pending withdrawal.
// Zero rows affected means the request was already decided.
func (r *WithdrawalRepository) Review(ctx context.Context, id int64, status entities.ReviewStatus, reviewedBy int64, notes string) error {
	query := `
		UPDATE withdrawals
		SET status = $2, reviewed_by = $3, review_notes = $4, reviewed_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := r.q.Exec(ctx, query, id, status, reviewedBy, notes)
	if err != nil {
		return fmt.Errorf("failed to review withdrawal %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.CodeAlreadySettled, "withdrawal %d already reviewed", id)
	}

	return nil
}

// ListByUsers returns withdrawals for the given users, newest first
func (r *WithdrawalRepository) ListByUsers(ctx context.Context, userIDs []int64, status *entities.ReviewStatus, limit int) ([]*entities.Withdrawal, error) {
	query := `
		SELECT id, reference, user_id, amount, payment_method, account_details, status,
		       review_notes, reviewed_by, reviewed_at, created_at
		FROM withdrawals
		WHERE 1=1
	`
	args := []any{}
	argIdx := 1

	// nil means no user restriction
	if userIDs != nil {
		query += fmt.Sprintf(` AND user_id = ANY($%d)`, argIdx)
		args = append(args, userIDs)
		argIdx++
	}
	if status != nil {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, *status)
		argIdx++
	}

	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, argIdx)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []*entities.Withdrawal
	for rows.Next() {
		var withdrawal entities.Withdrawal
		err := rows.Scan(
			&withdrawal.ID,
			&withdrawal.Reference,
			&withdrawal.UserID,
			&withdrawal.Amount,
			&withdrawal.PaymentMethod,
			&withdrawal.AccountDetails,
			&withdrawal.Status,
			&withdrawal.ReviewNotes,
			&withdrawal.ReviewedBy,
			&withdrawal.ReviewedAt,
			&withdrawal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, &withdrawal)
	}

	return withdrawals, rows.Err()
}

// SumPendingHolds returns the total amount debited from main wallets and
// held by withdrawals still awaiting review
func (r *WithdrawalRepository) SumPendingHolds(ctx context.Context) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM withdrawals WHERE status = 'pending'`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum pending withdrawal holds: %w", err)
	}
	return total, nil
}
