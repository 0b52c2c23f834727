package repository

import (
	"errors"

	"karnalix/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error code raised when lock_timeout expires
const pgLockNotAvailable = "55P03"

// translateLockError maps a lock acquisition timeout to the retryable
// Busy error; other errors pass through unchanged.
func translateLockError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
		return domain.WrapError(domain.CodeBusy, err, "account lock timed out")
	}
	return err
}
