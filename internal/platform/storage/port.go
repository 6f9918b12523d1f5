// Package storage defines the key-value persistence port shared by all
// services. Every entity collection is serialized as JSON under one
// namespaced key; implementations live in internal/infra.
package storage

import "context"

// Persisted collection keys. The "plus_" namespace is shared with the
// original terminal application so an exported data directory stays
// readable by both.
const (
	KeyTransactions = "plus_transactions"
	KeyBalances     = "plus_balances"
	KeyLoans        = "plus_loans"
	KeyEqubs        = "plus_equbs"
	KeyGoals        = "plus_goals"
	KeyPlanned      = "plus_planned"
	KeySettled      = "plus_settled"
)

// KV is an opaque key-value store with JSON serialize semantics.
// Get decodes the stored value into dest and reports whether the key
// existed. Set overwrites the key with the JSON encoding of value.
type KV interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}
