// Package user contains the endpoints of the account lifecycle: register,
// validate, set-password, login, logout and account deletion
package user

import (
	"errors"
	"net/http"

	"discoverlx/poi-api/internal/account"
)

// statusOf maps an account error to its HTTP status and flash category.
// Anything it doesn't know is a 500.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, account.ErrInvalidInput),
		errors.Is(err, account.ErrPasswordMismatch),
		errors.Is(err, account.ErrWeakPassword),
		errors.Is(err, account.ErrInvalidOrExpiredToken):
		return http.StatusBadRequest, "error"

	case errors.Is(err, account.ErrDuplicateUsername),
		errors.Is(err, account.ErrDuplicateEmail):
		return http.StatusConflict, "error"

	case errors.Is(err, account.ErrAccountNotFound):
		return http.StatusNotFound, "error"

	case errors.Is(err, account.ErrAlreadyValidated):
		return http.StatusOK, "info"

	case errors.Is(err, account.ErrNotValidated),
		errors.Is(err, account.ErrNoPassword),
		errors.Is(err, account.ErrBadPassword),
		errors.Is(err, account.ErrNoPendingSetup):
		return http.StatusUnauthorized, "error"

	default:
		return http.StatusInternalServerError, "error"
	}
}
