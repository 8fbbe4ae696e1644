package service

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP status
// codes with errors.Is; anything else is treated as an internal failure.
var (
	// ErrNotFound covers missing targets and rows the caller does not own
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateReport means an open report by the same reporter on the
	// same target already exists
	ErrDuplicateReport = errors.New("an open report for this target already exists")

	// ErrInvalidTransition means a report status change is not allowed from
	// the current state
	ErrInvalidTransition = errors.New("invalid report status transition")

	// ErrValidation covers malformed or out-of-range input
	ErrValidation = errors.New("validation failed")

	// ErrSelfReport means a user tried to report themselves
	ErrSelfReport = errors.New("you cannot report yourself")

	// ErrDuplicate covers unique-constraint conflicts surfaced to callers
	// (username/email/category name taken)
	ErrDuplicate = errors.New("resource already exists")

	// ErrForbidden means the caller is authenticated but not allowed
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials covers failed logins
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountBanned means the account exists but is banned
	ErrAccountBanned = errors.New("account is banned")

	// ErrCategoryNotEmpty blocks deleting a category that still has images
	ErrCategoryNotEmpty = errors.New("category still contains images")

	errChannelUnavailable = errors.New("rabbitmq channel not available")
)
