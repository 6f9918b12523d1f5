package goal

import "errors"

var (
	ErrMissingTitle     = errors.New("goal title is required")
	ErrInvalidType      = errors.New("unknown goal type")
	ErrInvalidTarget    = errors.New("target amount must be positive")
	ErrNegativeCurrent  = errors.New("current amount cannot be negative")
	ErrInvalidChannel   = errors.New("unknown funding channel")
	ErrInvalidFrequency = errors.New("contribution frequency must be daily, weekly, or monthly")
	ErrNotFound         = errors.New("goal not found")
)
