package testutil

import (
	"context"
	"testing"

	"karnalix/database"
	"karnalix/domain/entities"

	"github.com/stretchr/testify/require"
)

// SeedUser inserts a user with its three zero-balance wallets and
// returns the stored row.
func SeedUser(t *testing.T, db *database.DB, username string, role entities.Role, createdBy *int64) *entities.User {
	ctx := context.Background()

	var user entities.User
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (username, role, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, username, role, kyc_approved, created_by, created_at, updated_at
	`, username, role, createdBy).Scan(
		&user.ID, &user.Username, &user.Role, &user.KycApproved,
		&user.CreatedBy, &user.CreatedAt, &user.UpdatedAt,
	)
	require.NoError(t, err)

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO wallets (user_id, kind, balance)
		VALUES ($1, 'main', 0), ($1, 'bonus', 0), ($1, 'locked', 0)
	`, user.ID)
	require.NoError(t, err)

	return &user
}

// SetBalance forces a wallet balance directly, bypassing the ledger.
// Only for arranging test fixtures.
func SetBalance(t *testing.T, db *database.DB, userID int64, kind entities.WalletKind, balance int64) {
	_, err := db.Pool.Exec(context.Background(), `
		UPDATE wallets SET balance = $3 WHERE user_id = $1 AND kind = $2
	`, userID, kind, balance)
	require.NoError(t, err)
}

// SetKycApproved marks a user as having cleared KYC review
func SetKycApproved(t *testing.T, db *database.DB, userID int64) {
	_, err := db.Pool.Exec(context.Background(), `
		UPDATE users SET kyc_approved = TRUE WHERE id = $1
	`, userID)
	require.NoError(t, err)
}

// Balance reads one wallet balance directly
func Balance(t *testing.T, db *database.DB, userID int64, kind entities.WalletKind) int64 {
	var balance int64
	err := db.Pool.QueryRow(context.Background(), `
		SELECT balance FROM wallets WHERE user_id = $1 AND kind = $2
	`, userID, kind).Scan(&balance)
	require.NoError(t, err)
	return balance
}

// EntryCount counts ledger entries of a given kind
func EntryCount(t *testing.T, db *database.DB, kind entities.EntryKind) int {
	var count int
	err := db.Pool.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM ledger_entries WHERE kind = $1
	`, kind).Scan(&count)
	require.NoError(t, err)
	return count
}
