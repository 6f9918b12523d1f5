package loan

import "errors"

var (
	ErrInvalidDuration   = errors.New("duration must be at least one month")
	ErrNegativePrincipal = errors.New("principal cannot be negative")
	ErrNegativeRate      = errors.New("interest rate cannot be negative")
	ErrMissingName       = errors.New("loan name is required")
	ErrInvalidChannel    = errors.New("unknown payment channel")
	ErrNotFound          = errors.New("loan not found")
	ErrAlreadySettled    = errors.New("loan has no remaining installments")
)
