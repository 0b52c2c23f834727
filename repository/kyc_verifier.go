package repository

import (
	"context"
	"fmt"

	"karnalix/database"

	"github.com/jackc/pgx/v5"
)

// KycVerifier answers withdrawal eligibility from the users table
type KycVerifier struct {
	q Queryable
}

// NewKycVerifier creates a new KYC verifier
func NewKycVerifier(db *database.DB) *KycVerifier {
	return &KycVerifier{q: db.Pool}
}

// IsWithdrawalEligible reports whether the user has passed KYC review.
// An unknown user is simply not eligible.
func (v *KycVerifier) IsWithdrawalEligible(ctx context.Context, userID int64) (bool, error) {
	var approved bool
	err := v.q.QueryRow(ctx, `SELECT kyc_approved FROM users WHERE id = $1`, userID).Scan(&approved)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check kyc status for user %d: %w", userID, err)
	}
	return approved, nil
}
