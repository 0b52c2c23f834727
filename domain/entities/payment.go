package entities

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus represents the state of a deposit or withdrawal request
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// IsReviewed returns true once an admin has decided the request
func (s ReviewStatus) IsReviewed() bool {
	return s != ReviewStatusPending
}

// Deposit is a user's request to have externally paid funds credited.
// No ledger effect occurs until an admin approves it.
type Deposit struct {
	ID            int64        `db:"id"`
	Reference     uuid.UUID    `db:"reference"`
	UserID        int64        `db:"user_id"`
	Amount        int64        `db:"amount"`
	PaymentMethod string       `db:"payment_method"`
	Notes         string       `db:"notes"`
	Status        ReviewStatus `db:"status"`
	ReviewNotes   string       `db:"review_notes"`
	ReviewedBy    *int64       `db:"reviewed_by"`
	CreatedAt     time.Time    `db:"created_at"`
	ReviewedAt    *time.Time   `db:"reviewed_at"`
}

// Withdrawal is a user's request to move funds out of the system.
// The amount is debited from main at request time and held; rejection
// credits it back, approval writes the terminal withdrawal entry.
type Withdrawal struct {
	ID             int64        `db:"id"`
	Reference      uuid.UUID    `db:"reference"`
	UserID         int64        `db:"user_id"`
	Amount         int64        `db:"amount"`
	PaymentMethod  string       `db:"payment_method"`
	AccountDetails string       `db:"account_details"`
	Status         ReviewStatus `db:"status"`
	ReviewNotes    string       `db:"review_notes"`
	ReviewedBy     *int64       `db:"reviewed_by"`
	CreatedAt      time.Time    `db:"created_at"`
	ReviewedAt     *time.Time   `db:"reviewed_at"`
}
