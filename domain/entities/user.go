package entities

import (
	"time"
)

// User represents a platform account with its place in the hierarchy
type User struct {
	ID          int64     `db:"id"`
	Username    string    `db:"username"`
	Role        Role      `db:"role"`
	KycApproved bool      `db:"kyc_approved"`
	CreatedBy   *int64    `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// WasCreatedBy returns true if the user was directly created by creatorID
func (u *User) WasCreatedBy(creatorID int64) bool {
	return u.CreatedBy != nil && *u.CreatedBy == creatorID
}

// Principal returns the principal view of this user
func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, Role: u.Role}
}
