package bankgo

import (
	"errors"
	"fmt"
)

var (
	ErrInternalServer = errors.New("internal server error")

	// ErrInvalidAmount rejects zero or negative movement amounts
	// before any store access.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrSameAccount rejects a transfer whose source and destination
	// are the same account.
	ErrSameAccount = errors.New("source and destination are the same account")

	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrForbidden          = errors.New("forbidden")

	// ErrConflict is the only transient failure kind. It surfaces
	// store-level serialization or deadlock aborts and is retried a
	// bounded number of times by the ledger before reaching a caller.
	ErrConflict = errors.New("conflicting concurrent update")

	// ErrStoreUnavailable marks an unexpected store fault. It is never
	// collapsed into ErrNotFound or ErrInsufficientFunds.
	ErrStoreUnavailable = errors.New("account store unavailable")

	// ErrOverloaded is returned when load shedding rejects a request
	// before it reaches the ledger.
	ErrOverloaded = errors.New("service overloaded")
)

type ErrBadRequest struct {
	Fields map[string]string `json:"fields"`
}

func (e ErrBadRequest) Error() string {
	return fmt.Sprintf("missing/invalid params: %v", e.Fields)
}

type ErrNotFound struct {
	Number string `json:"number,omitempty"`
}

func (e ErrNotFound) Error() string {
	return "record not found"
}
