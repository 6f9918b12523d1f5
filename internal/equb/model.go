// Package equb manages rotating-savings circles: fixed contributions per
// round, with one member receiving the pooled total each round.
package equb

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/abenezerg/pluszone/internal/schedule"
)

// Status of an equb circle.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

// Group is one rotating-savings circle. CurrentRound is 1-based and never
// exceeds MembersCount; the circle completes when the round reaches the
// member count.
type Group struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	MembersCount       int             `json:"membersCount"`
	ContributionAmount decimal.Decimal `json:"contributionAmount"`
	Frequency          schedule.Rule   `json:"frequency"`
	StartDate          time.Time       `json:"startDate"`
	CurrentRound       int             `json:"currentRound"`
	MyTurnIndex        int             `json:"myTurnIndex"`
	JoinedAtRound      int             `json:"joinedAtRound"`
	Status             Status          `json:"status"`
}

// MaturityDate is when the final round lands: the start advanced by one
// period per member, using calendar-aware addition.
func (g *Group) MaturityDate() time.Time {
	return schedule.MaturityDate(g.StartDate, g.Frequency, g.MembersCount)
}

// PotAmount is the pooled total one member receives per round.
func (g *Group) PotAmount() decimal.Decimal {
	return g.ContributionAmount.Mul(decimal.NewFromInt(int64(g.MembersCount)))
}

// MyTurnPassed reports whether the current user has already received the pot.
func (g *Group) MyTurnPassed() bool {
	return g.Status == StatusCompleted || g.CurrentRound > g.MyTurnIndex
}
