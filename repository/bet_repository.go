package repository

import (
	"context"
	"fmt"

	"karnalix/database"
	"karnalix/domain"
	"karnalix/domain/entities"

	"github.com/jackc/pgx/v5"
)

// BetRepository implements the BetRepository interface
type BetRepository struct {
	q Queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

// newBetRepository creates a new bet repository bound to a transaction
func newBetRepository(tx Queryable) *BetRepository {
	return &BetRepository{q: tx}
}

// Create inserts a new pending bet
func (r *BetRepository) Create(ctx context.Context, bet *entities.Bet) error {
	query := `
		INSERT INTO bets (user_id, game_id, stake, potential_win, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if bet.Status == "" {
		bet.Status = entities.BetStatusPending
	}

	err := r.q.QueryRow(ctx, query,
		bet.UserID,
		bet.GameID,
		bet.Stake,
		bet.PotentialWin,
		bet.Status,
	).Scan(&bet.ID, &bet.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create bet for user %d: %w", bet.UserID, err)
	}

	return nil
}

// GetByID retrieves a bet by its ID
func (r *BetRepository) GetByID(ctx context.Context, id int64) (*entities.Bet, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate retrieves a bet and row-locks it for the duration of
// the transaction. Settlement must hold this lock so two concurrent
// settlements of the same bet serialize.
func (r *BetRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Bet, error) {
	return r.get(ctx, id, true)
}

func (r *BetRepository) get(ctx context.Context, id int64, forUpdate bool) (*entities.Bet, error) {
	query := `
		SELECT id, user_id, game_id, stake, potential_win, actual_win, status, created_at, settled_at
		FROM bets
		WHERE id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var bet entities.Bet
	err := r.q.QueryRow(ctx, query, id).Scan(
		&bet.ID,
		&bet.UserID,
		&bet.GameID,
		&bet.Stake,
		&bet.PotentialWin,
		&bet.ActualWin,
		&bet.Status,
		&bet.CreatedAt,
		&bet.SettledAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if translated := translateLockError(err); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to get bet %d: %w", id, err)
	}

	return &bet, nil
}

// Settle moves a pending bet into a terminal status. The status guard
// makes settlement idempotent at the storage level: a second attempt
// affects zero rows and surfaces as an already-settled conflict.
func (r *BetRepository) Settle(ctx context.Context, id int64, status entities.BetStatus, actualWin int64) error {
	query := `
		UPDATE bets
		SET status = $2, actual_win = $3, settled_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := r.q.Exec(ctx, query, id, status, actualWin)
	if err != nil {
		return fmt.Errorf("failed to settle bet %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.CodeAlreadySettled, "bet %d is not pending", id)
	}

	return nil
}

// ListByUsers returns bets for the given users, newest first. A nil
// status matches all statuses.
func (r *BetRepository) ListByUsers(ctx context.Context, userIDs []int64, status *entities.BetStatus, limit int) ([]*entities.Bet, error) {
	query := `
		SELECT id, user_id, game_id, stake, potential_win, actual_win, status, created_at, settled_at
		FROM bets
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
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}
	defer rows.Close()

	var bets []*entities.Bet
	for rows.Next() {
		var bet entities.Bet
		err := rows.Scan(
			&bet.ID,
			&bet.UserID,
			&bet.GameID,
			&bet.Stake,
			&bet.PotentialWin,
			&bet.ActualWin,
			&bet.Status,
			&bet.CreatedAt,
			&bet.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, &bet)
	}

	return bets, rows.Err()
}
