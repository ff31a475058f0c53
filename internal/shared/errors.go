package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive indicates a login attempt on a non-active account.
	ErrAccountInactive = errors.New("account is not active")
	// ErrUnauthenticated covers every bearer-credential failure. Signature,
	// expiry and missing-account failures all collapse to this one error so
	// callers cannot tell which check failed.
	ErrUnauthenticated = errors.New("unauthenticated")
)
