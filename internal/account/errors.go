package account

import "errors"

// Every way the account lifecycle can refuse a request. Handlers map these
// to HTTP statuses and user-facing messages; none of them is fatal.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrDuplicateUsername     = errors.New("username already exists")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrInvalidOrExpiredToken = errors.New("validation link invalid or expired")
	ErrAccountNotFound       = errors.New("account not found")
	ErrAlreadyValidated      = errors.New("email already validated")
	ErrNotValidated          = errors.New("email not validated")
	ErrNoPassword            = errors.New("password not set")
	ErrBadPassword           = errors.New("incorrect password")
	ErrNoPendingSetup        = errors.New("no pending password setup")
	ErrPasswordMismatch      = errors.New("passwords don't match")
	ErrWeakPassword          = errors.New("password too weak")
)
