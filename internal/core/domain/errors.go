package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service satisfies errors.Is against
// exactly one of these, or is an unclassified storage failure.
var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrDuplicateIdentity    = errors.New("mobile number or email already registered")
	ErrNotFound             = errors.New("not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("access forbidden")
	ErrNoExecutorsAvailable = errors.New("no executors found for the specified category")
	ErrDeliveryFailure      = errors.New("failed to deliver verification code")
	ErrInvalidCode          = errors.New("invalid verification code")
)

var (
	ErrInvalidRole     = fmt.Errorf("%w: invalid role", ErrInvalidArgument)
	ErrMissingSelector = fmt.Errorf("%w: account id or mobile number is required", ErrInvalidArgument)

	ErrAccountNotFound  = fmt.Errorf("account %w", ErrNotFound)
	ErrExecutorNotFound = fmt.Errorf("executor %w", ErrNotFound)
	ErrRequestNotFound  = fmt.Errorf("request %w", ErrNotFound)
	ErrOwnerNotFound    = fmt.Errorf("request owner %w", ErrNotFound)
	ErrNoAccountsInRole = fmt.Errorf("no accounts with this role: %w", ErrNotFound)

	ErrTokenExpired   = fmt.Errorf("%w: token expired", ErrUnauthorized)
	ErrTokenMalformed = fmt.Errorf("%w: invalid token", ErrUnauthorized)
)

var ErrNoPendingAdmin = fmt.Errorf("pending admin %w", ErrNotFound)
