// Package services defines the business logic for users, loan requests and
// the API audit log. This file centralizes service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// Every specific error wraps one of three categories (ErrValidation,
// ErrNotFound, ErrConflict). Handlers branch on the category with errors.Is
// and translate it into an HTTP status; anything else is a persistence or
// internal failure.
package services

import (
	"errors"
	"fmt"
)

// Error categories.
var (
	// ErrValidation marks malformed input (bad email, phone length, amount
	// out of range, unknown status value).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a reference to a user or loan that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a request that collides with existing state
	// (duplicate email, second pending loan).
	ErrConflict = errors.New("conflict")
)

// User-related errors.
var (
	ErrInvalidEmail   = fmt.Errorf("%w: invalid email address", ErrValidation)
	ErrInvalidPhone   = fmt.Errorf("%w: phone number must be 7 to 15 characters", ErrValidation)
	ErrUserNotFound   = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrDuplicateEmail = fmt.Errorf("%w: email already exists", ErrConflict)
)

// Loan-related errors.
var (
	ErrInvalidAmount    = fmt.Errorf("%w: invalid amount, amount must be between 0 and 1,000,000", ErrValidation)
	ErrAmountPrecision  = fmt.Errorf("%w: invalid amount, amount must have at most 2 decimal places", ErrValidation)
	ErrInvalidStatus    = fmt.Errorf("%w: invalid status value", ErrValidation)
	ErrLoanNotFound     = fmt.Errorf("%w: loan not found", ErrNotFound)
	ErrDuplicatePending = fmt.Errorf("%w: user already has a pending loan request", ErrConflict)
)
