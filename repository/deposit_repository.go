package repository

import (
	"context"
	"fmt"

	"karnalix/database"
	"karnalix/domain"
	"karnalix/domain/entities"

	"github.com/jackc/pgx/v5"
)

// DepositRepository implements the DepositRepository interface
type DepositRepository struct {
	q Queryable
}

// NewDepositRepository creates a new deposit repository
func NewDepositRepository(db *database.DB) *DepositRepository {
	return &DepositRepository{q: db.Pool}
}

// newDepositRepository creates a new deposit repository bound to a transaction
func newDepositRepository(tx Queryable) *DepositRepository {
	return &DepositRepository{q: tx}
}

// Create inserts a new pending deposit request
func (r *DepositRepository) Create(ctx context.Context, deposit *entities.Deposit) error {
	query := `
		INSERT INTO deposits (reference, user_id, amount, payment_method, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	if deposit.Status == "" {
		deposit.Status = entities.ReviewStatusPending
	}

	err := r.q.QueryRow(ctx, query,
		deposit.Reference,
		deposit.UserID,
		deposit.Amount,
		deposit.PaymentMethod,
		deposit.Notes,
		deposit.Status,
	).Scan(&deposit.ID, &deposit.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create deposit for user %d: %w", deposit.UserID, err)
	}

	return nil
}

// GetByIDForUpdate retrieves a deposit and row-locks it so concurrent
// reviews of the same request serialize.
func (r *DepositRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Deposit, error) {
	query := `
		SELECT id, reference, user_id, amount, payment_method, notes, status,
		       review_notes, reviewed_by, reviewed_at, created_at
		FROM deposits
		WHERE id = $1
		FOR UPDATE
	`

	var deposit entities.Deposit
	err := r.q.QueryRow(ctx, query, id).Scan(
		&deposit.ID,
		&deposit.Reference,
		&deposit.UserID,
		&deposit.Amount,
		&deposit.PaymentMethod,
		&deposit.Notes,
		&deposit.Status,
		&deposit.ReviewNotes,
		&deposit.ReviewedBy,
		&deposit.ReviewedAt,
		&deposit.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if translated := translateLockError(err); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to get deposit %d: %w", id, err)
	}

	return &deposit, nil
}

// Review records an approve or reject decision on a pending deposit.
// Zero rows affected means the request was already decided.
func (r *DepositRepository) Review(ctx context.Context, id int64, status entities.ReviewStatus, reviewedBy int64, notes string) error {
	query := `
		UPDATE deposits
		SET status = $2, reviewed_by = $3, review_notes = $4, reviewed_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := r.q.Exec(ctx, query, id, status, reviewedBy, notes)
	if err != nil {
		return fmt.Errorf("failed to review deposit %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.CodeAlreadySettled, "deposit %d already reviewed", id)
	}

	return nil
}

// ListByUsers returns deposits for the given users, newest first
func (r *DepositRepository) ListByUsers(ctx context.Context, userIDs []int64, status *entities.ReviewStatus, limit int) ([]*entities.Deposit, error) {
	query := `
		SELECT id, reference, user_id, amount, payment_method, notes, status,
		       review_notes, reviewed_by, reviewed_at, created_at
		FROM deposits
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
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	defer rows.Close()

	var deposits []*entities.Deposit
	for rows.Next() {
		var deposit entities.Deposit
		err := rows.Scan(
			&deposit.ID,
			&deposit.Reference,
			&deposit.UserID,
			&deposit.Amount,
			&deposit.PaymentMethod,
			&deposit.Notes,
			&deposit.Status,
			&deposit.ReviewNotes,
			&deposit.ReviewedBy,
			&deposit.ReviewedAt,
			&deposit.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deposit: %w", err)
		}
		deposits = append(deposits, &deposit)
	}

	return deposits, rows.Err()
}
