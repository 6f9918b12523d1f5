// Package ledger owns transactions and per-channel wallet balances, and the
// invariant binding them: every balance equals the opening baseline plus the
// net effect of all recorded transactions on that channel.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type classifies a transaction's effect on wallet balances.
type Type string

const (
	TypeIncome   Type = "INCOME"
	TypeExpense  Type = "EXPENSE"
	TypeTransfer Type = "TRANSFER"
)

// Valid reports whether t is a recognized transaction type.
func (t Type) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}
	return false
}

// Channel is a payment channel holding a wallet balance.
type Channel string

const (
	ChannelCash     Channel = "CASH"
	ChannelTelebirr Channel = "TELEBIRR"
	ChannelCBE      Channel = "CBE"
	ChannelEbirr    Channel = "EBIRR"
)

// Channels lists every known payment channel.
func Channels() []Channel {
	return []Channel{ChannelCash, ChannelTelebirr, ChannelCBE, ChannelEbirr}
}

// Valid reports whether c is a known payment channel.
func (c Channel) Valid() bool {
	switch c {
	case ChannelCash, ChannelTelebirr, ChannelCBE, ChannelEbirr:
		return true
	}
	return false
}

// Transaction is a single ledger record. Field names in JSON match the
// original application's persisted layout.
type Transaction struct {
	ID              string          `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Type            Type            `json:"type"`
	Method          Channel         `json:"method"`
	ToMethod        Channel         `json:"toMethod,omitempty"` // transfer destination
	Category        string          `json:"category,omitempty"`
	Note            string          `json:"note,omitempty"`
	Vendor          string          `json:"vendor,omitempty"`
	Date            time.Time       `json:"date"`
	IsAutoGenerated bool            `json:"isAutoGenerated"`
}

// Balances maps each payment channel to its current cached balance.
type Balances map[Channel]decimal.Decimal

// Clone returns an independent copy of the balances mapping.
func (b Balances) Clone() Balances {
	out := make(Balances, len(b))
	for ch, amt := range b {
		out[ch] = amt
	}
	return out
}

// DefaultBalances is the opening baseline used when no balances have been
// persisted yet. Values carry over from the original application's seed.
func DefaultBalances() Balances {
	return Balances{
		ChannelCash:     decimal.NewFromInt(15000),
		ChannelTelebirr: decimal.NewFromInt(42400),
		ChannelCBE:      decimal.NewFromInt(85000),
		ChannelEbirr:    decimal.NewFromInt(5500),
	}
}
