// Package roadmap merges loans, equbs, and planned payments into one
// chronological stream of upcoming obligations, and tracks which projected
// instances the user has already handled.
package roadmap

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SourceType tags which entity an obligation item was projected from.
type SourceType string

const (
	SourceLoan    SourceType = "LOAN"
	SourceEqub    SourceType = "EQUB"
	SourcePlanned SourceType = "PLANNED"
)

// Item is one projected obligation instance. Occurrence is the absolute
// occurrence number within its source's schedule (payments already made
// included), so an item keeps its identity across projections.
type Item struct {
	Source     SourceType      `json:"sourceType"`
	SourceID   string          `json:"sourceId"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    time.Time       `json:"dueDate"`
	Occurrence int             `json:"occurrence"`
	Settled    bool            `json:"settled"`
}

// Key is the stable composite identifier used for settlement marks.
// One-off items omit the occurrence component.
func Key(source SourceType, sourceID string, occurrence int) string {
	if source == SourcePlanned {
		return fmt.Sprintf("%s:%s", source, sourceID)
	}
	return fmt.Sprintf("%s:%s:%d", source, sourceID, occurrence)
}

// Key returns the item's settlement identifier.
func (it Item) Key() string {
	return Key(it.Source, it.SourceID, it.Occurrence)
}

// CategoryFilter narrows a projection to one source type.
type CategoryFilter string

const (
	FilterAll     CategoryFilter = "ALL"
	FilterLoan    CategoryFilter = "LOAN"
	FilterEqub    CategoryFilter = "EQUB"
	FilterPlanned CategoryFilter = "PLANNED"
)

// ParseCategory maps a query value to a filter; anything unrecognized or
// empty means no narrowing.
func ParseCategory(s string) CategoryFilter {
	switch CategoryFilter(s) {
	case FilterLoan, FilterEqub, FilterPlanned:
		return CategoryFilter(s)
	}
	return FilterAll
}

// TimeWindow bounds a projection to obligations due within the next N days.
// WindowAll keeps everything, overdue items included.
type TimeWindow int

const (
	WindowAll TimeWindow = 0
	Window7   TimeWindow = 7
	Window30  TimeWindow = 30
	Window90  TimeWindow = 90
)

// ParseWindow maps a query value to a window; anything unrecognized or
// empty means unbounded.
func ParseWindow(s string) TimeWindow {
	switch s {
	case "7":
		return Window7
	case "30":
		return Window30
	case "90":
		return Window90
	}
	return WindowAll
}
