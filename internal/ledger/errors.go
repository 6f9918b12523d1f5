package ledger

import "errors"

// Validation errors, rejected before any mutation.
var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInvalidChannel    = errors.New("unknown payment channel")
	ErrMissingTransferTo = errors.New("transfer requires a destination channel")
	ErrSameChannel       = errors.New("transfer source and destination must differ")
	ErrInsufficientFunds = errors.New("transfer amount exceeds source channel balance")
)

// ErrBalanceMismatch is returned by Reconcile when a cached balance no
// longer matches the recomputation from transaction history.
var ErrBalanceMismatch = errors.New("cached balance does not match transaction history")
