package repository

import (
	"context"
	"fmt"

	"karnalix/database"
	"karnalix/domain"
	"karnalix/domain/entities"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q Queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepository creates a new user repository bound to a transaction
func newUserRepository(tx Queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByID retrieves a user by its ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	query := `
		SELECT id, username, role, kyc_approved, created_by, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user entities.User
	err := r.q.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Role,
		&user.KycApproved,
		&user.CreatedBy,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	return &user, nil
}

// Create creates a new user record
func (r *UserRepository) Create(ctx context.Context, username string, role entities.Role, createdBy *int64) (*entities.User, error) {
	query := `
		INSERT INTO users (username, role, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, kyc_approved, created_at, updated_at
	`

	user := &entities.User{
		Username:  username,
		Role:      role,
		CreatedBy: createdBy,
	}
	err := r.q.QueryRow(ctx, query, username, role, createdBy).Scan(
		&user.ID,
		&user.KycApproved,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", username, err)
	}

	return user, nil
}

// GetCreatedUserIDs returns the IDs of users directly created by creatorID
func (r *UserRepository) GetCreatedUserIDs(ctx context.Context, creatorID int64) ([]int64, error) {
	query := `
		SELECT id
		FROM users
		WHERE created_by = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get users created by %d: %w", creatorID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan created user id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// SetKycApproved updates a user's KYC approval flag
func (r *UserRepository) SetKycApproved(ctx context.Context, id int64, approved bool) error {
	query := `
		UPDATE users
		SET kyc_approved = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, id, approved)
	if err != nil {
		return fmt.Errorf("failed to update kyc flag for user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.CodeNotFound, "user %d not found", id)
	}

	return nil
}
