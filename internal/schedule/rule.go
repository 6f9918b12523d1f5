// Package schedule implements recurrence-rule arithmetic: turning a start
// date and a named cadence into ordered future occurrence dates.
package schedule

import "time"

// Rule is a named recurrence cadence.
type Rule string

const (
	Daily       Rule = "DAILY"
	Weekly      Rule = "WEEKLY"
	Every10Days Rule = "EVERY_10_DAYS"
	Every15Days Rule = "EVERY_15_DAYS"
	Monthly     Rule = "MONTHLY"
	BiMonthly   Rule = "BI_MONTHLY"
	Quarterly   Rule = "QUARTERLY"
)

// Valid reports whether r is a recognized rule.
func (r Rule) Valid() bool {
	switch r {
	case Daily, Weekly, Every10Days, Every15Days, Monthly, BiMonthly, Quarterly:
		return true
	}
	return false
}

// step returns the period as calendar months and days. Exactly one of the
// two is non-zero, so the period can never be zero-length. An unknown rule
// is treated as MONTHLY.
func (r Rule) step() (months, days int) {
	switch r {
	case Daily:
		return 0, 1
	case Weekly:
		return 0, 7
	case Every10Days:
		return 0, 10
	case Every15Days:
		return 0, 15
	case BiMonthly:
		return 2, 0
	case Quarterly:
		return 3, 0
	default: // Monthly and anything unrecognized
		return 1, 0
	}
}

// Next returns the occurrence following t under the rule. Month-based rules
// use calendar-month addition so day-of-month is preserved across months of
// different lengths.
func (r Rule) Next(t time.Time) time.Time {
	months, days := r.step()
	return t.AddDate(0, months, days)
}
