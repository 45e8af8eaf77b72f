package account

import "errors"

var (
	// ErrDuplicateAccount occurs when the mobile number or email is already
	// registered for the same account kind.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrInvalidCredentials covers both an unknown identifier and a PIN
	// mismatch so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPendingApproval indicates the account exists but has not been
	// activated yet.
	ErrPendingApproval = errors.New("account pending approval")

	// ErrNotFound indicates no account matched the lookup.
	ErrNotFound = errors.New("account not found")

	// ErrValidation indicates the request payload failed validation.
	ErrValidation = errors.New("validation failed")
)
