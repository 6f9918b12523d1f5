// Package goal manages savings goals and the planner recommending the
// periodic contribution needed to reach them in time.
package goal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/abenezerg/pluszone/internal/ledger"
	"github.com/abenezerg/pluszone/internal/schedule"
)

// Type classifies what the goal is saving toward.
type Type string

const (
	TypeSavings       Type = "SAVINGS"
	TypeLoanPayoff    Type = "LOAN_PAYOFF"
	TypeAssetPurchase Type = "ASSET_PURCHASE"
)

// Valid reports whether t is a recognized goal type.
func (t Type) Valid() bool {
	switch t {
	case TypeSavings, TypeLoanPayoff, TypeAssetPurchase:
		return true
	}
	return false
}

// Status is derived for display from progress versus elapsed time. It is
// never persisted.
type Status string

const (
	StatusOnTrack   Status = "ON_TRACK"
	StatusBehind    Status = "BEHIND"
	StatusCompleted Status = "COMPLETED"
)

// Goal is a savings target funded from one payment channel.
// ContributionAmount is the recommended periodic contribution; the planner
// refreshes it when a driving field changes, and manual overrides survive
// until then.
type Goal struct {
	ID                    string          `json:"id"`
	Title                 string          `json:"title"`
	Type                  Type            `json:"type"`
	TargetAmount          decimal.Decimal `json:"targetAmount"`
	CurrentAmount         decimal.Decimal `json:"currentAmount"`
	StartDate             time.Time       `json:"startDate"`
	Deadline              time.Time       `json:"deadline"`
	FundingSource         ledger.Channel  `json:"fundingSource"`
	ContributionFrequency schedule.Rule   `json:"contributionFrequency"`
	ContributionAmount    decimal.Decimal `json:"contributionAmount"`
}

// RecommendedContribution computes the periodic amount that closes the gap
// between current and target before the deadline at the given cadence:
// ceil(remaining / periods), with periods clamped to at least 1.
//
// The second return value is false when no sane recommendation exists
// (deadline not after start, or nothing remaining); the caller must then
// keep the last valid value rather than recompute.
func RecommendedContribution(target, current decimal.Decimal, start, deadline time.Time, cadence schedule.Rule) (decimal.Decimal, bool) {
	remaining := target.Sub(current)
	if remaining.Sign() <= 0 {
		return decimal.Zero, false
	}
	if !deadline.After(start) {
		return decimal.Zero, false
	}

	periods := periodsBetween(start, deadline, cadence)
	if periods < 1 {
		periods = 1
	}

	return remaining.Div(decimal.NewFromInt(int64(periods))).Ceil(), true
}

// periodsBetween counts whole cadence periods from start to deadline.
// Monthly counting is calendar-aware: a deadline landing on an earlier
// day-of-month than the start has not completed its final month.
func periodsBetween(start, deadline time.Time, cadence schedule.Rule) int {
	switch cadence {
	case schedule.Daily:
		return int(deadline.Sub(start).Hours() / 24)
	case schedule.Weekly:
		return int(deadline.Sub(start).Hours() / 24 / 7)
	default: // Monthly and anything unrecognized
		months := (deadline.Year()-start.Year())*12 + int(deadline.Month()-start.Month())
		if deadline.Day() < start.Day() {
			months--
		}
		return months
	}
}

// ProgressStatus derives the display status from progress versus the
// fraction of the goal's timeline already elapsed.
func (g *Goal) ProgressStatus(now time.Time) Status {
	if g.TargetAmount.Sign() > 0 && g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		return StatusCompleted
	}
	if !g.Deadline.After(g.StartDate) || !now.Before(g.Deadline) {
		return StatusBehind
	}
	if !now.After(g.StartDate) {
		return StatusOnTrack
	}

	elapsed := decimal.NewFromFloat(now.Sub(g.StartDate).Hours() / g.Deadline.Sub(g.StartDate).Hours())
	progress := decimal.Zero
	if g.TargetAmount.Sign() > 0 {
		progress = g.CurrentAmount.Div(g.TargetAmount)
	}
	if progress.GreaterThanOrEqual(elapsed) {
		return StatusOnTrack
	}
	return StatusBehind
}
