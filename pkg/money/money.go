// Package money holds helpers for birr amounts. All monetary values in the
// system are decimal.Decimal; floats never touch ledger math.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts a human-entered amount string to a decimal.
// Accepts "1500", "1,500.50" and " 1500 ".
func Parse(amountStr string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(amountStr), ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}
	return d, nil
}

// ParsePositive parses an amount and rejects zero or negative values.
func ParsePositive(amountStr string) (decimal.Decimal, error) {
	d, err := Parse(amountStr)
	if err != nil {
		return decimal.Zero, err
	}
	if d.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("amount must be positive, got %s", d)
	}
	return d, nil
}

// Format renders an amount with two decimal places for display.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
