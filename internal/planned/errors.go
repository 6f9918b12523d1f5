package planned

import "errors"

var (
	ErrMissingTitle   = errors.New("planned payment title is required")
	ErrInvalidAmount  = errors.New("planned payment amount must be positive")
	ErrMissingDueDate = errors.New("planned payment due date is required")
	ErrNotFound       = errors.New("planned payment not found")
)
