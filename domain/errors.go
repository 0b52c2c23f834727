package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies ledger failures so the transport layer can map
// each one to a distinct status code.
type ErrorCode string

const (
	CodeInsufficientFunds  ErrorCode = "insufficient_funds"
	CodeHierarchyViolation ErrorCode = "hierarchy_violation"
	CodePermissionDenied   ErrorCode = "permission_denied"
	CodeInvalidAmount      ErrorCode = "invalid_amount"
	CodeNotFound           ErrorCode = "not_found"
	CodeAlreadySettled     ErrorCode = "already_settled"
	CodeKycRequired        ErrorCode = "kyc_required"
	CodeBusy               ErrorCode = "busy"
)

// Error is a structured ledger error with a machine-readable code and an
// optional underlying cause. All engine operations fail with an *Error;
// a failure always implies zero mutation.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by code so callers can use errors.Is with the
// sentinel values below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Sentinel values for errors.Is checks
var (
	ErrInsufficientFunds  = &Error{Code: CodeInsufficientFunds, Message: "insufficient funds"}
	ErrHierarchyViolation = &Error{Code: CodeHierarchyViolation, Message: "hierarchy violation"}
	ErrPermissionDenied   = &Error{Code: CodePermissionDenied, Message: "permission denied"}
	ErrInvalidAmount      = &Error{Code: CodeInvalidAmount, Message: "invalid amount"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadySettled     = &Error{Code: CodeAlreadySettled, Message: "already settled"}
	ErrKycRequired        = &Error{Code: CodeKycRequired, Message: "kyc approval required"}
	ErrBusy               = &Error{Code: CodeBusy, Message: "account busy, retry later"}
)

// NewError builds a structured error with a formatted message
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a cause to a structured error
func WrapError(code ErrorCode, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf extracts the error code from err, or empty string for
// unclassified errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsRetryable reports whether the error is safe for the caller to retry.
// Busy is the only retryable code; all others are terminal for the request.
func IsRetryable(err error) bool {
	return CodeOf(err) == CodeBusy
}
