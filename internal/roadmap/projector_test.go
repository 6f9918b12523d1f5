package roadmap

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abenezerg/pluszone/internal/equb"
	"github.com/abenezerg/pluszone/internal/loan"
	"github.com/abenezerg/pluszone/internal/planned"
	"github.com/abenezerg/pluszone/internal/schedule"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func testLoan(t *testing.T) *loan.Loan {
	t.Helper()
	l := &loan.Loan{
		ID:             "loan-1",
		LoanName:       "Motorbike",
		LenderName:     "Awash Bank",
		TotalAmount:    d(12000),
		InterestRate:   d(14),
		DurationMonths: 12,
		StartDate:      day(2026, time.September, 5),
		Recurrence:     schedule.Monthly,
	}
	require.NoError(t, l.Recalculate())
	return l
}

func testEqub() *equb.Group {
	return &equb.Group{
		ID:                 "equb-1",
		Name:               "Office Equb",
		MembersCount:       20,
		ContributionAmount: d(500),
		Frequency:          schedule.Weekly,
		StartDate:          day(2026, time.September, 2),
		CurrentRound:       1,
		MyTurnIndex:        5,
		JoinedAtRound:      1,
		Status:             equb.StatusActive,
	}
}

func testPlanned() *planned.Payment {
	return &planned.Payment{
		ID:      "planned-1",
		Title:   "School Fees",
		Amount:  d(4500),
		DueDate: day(2026, time.September, 10),
	}
}

func TestProject_MergesAndSortsChronologically(t *testing.T) {
	now := day(2026, time.September, 1)

	items := Project([]*loan.Loan{testLoan(t)}, []*equb.Group{testEqub()}, []*planned.Payment{testPlanned()}, FilterAll, WindowAll, now)
	require.NotEmpty(t, items)

	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].DueDate.Before(items[i-1].DueDate), "ascending by due date")
	}

	// The first week holds the equb's opening round, then the loan's first
	// installment, then the planned payment.
	assert.Equal(t, SourceEqub, items[0].Source)
	assert.Equal(t, day(2026, time.September, 2), items[0].DueDate)
	assert.Equal(t, SourceLoan, items[1].Source)
	assert.Equal(t, day(2026, time.September, 5), items[1].DueDate)
	assert.Equal(t, SourceEqub, items[2].Source)
	assert.Equal(t, day(2026, time.September, 9), items[2].DueDate)
	assert.Equal(t, SourcePlanned, items[3].Source)
	assert.Equal(t, day(2026, time.September, 10), items[3].DueDate)
}

func TestProject_Idempotent(t *testing.T) {
	now := day(2026, time.September, 1)
	loans := []*loan.Loan{testLoan(t)}
	equbs := []*equb.Group{testEqub()}
	payments := []*planned.Payment{testPlanned()}

	first := Project(loans, equbs, payments, FilterAll, WindowAll, now)
	second := Project(loans, equbs, payments, FilterAll, WindowAll, now)
	assert.Equal(t, first, second)
}

func TestProject_LoanHorizon(t *testing.T) {
	now := day(2026, time.September, 1)
	l := testLoan(t)

	items := Project([]*loan.Loan{l}, nil, nil, FilterLoan, WindowAll, now)
	require.Len(t, items, 12)

	installment := d(1140)
	for i, it := range items {
		assert.True(t, it.Amount.Equal(installment), "occurrence %d amount %s", i, it.Amount)
		assert.Equal(t, i, it.Occurrence)
	}
	assert.Equal(t, day(2026, time.September, 5), items[0].DueDate)
	assert.Equal(t, day(2027, time.August, 5), items[11].DueDate)
}

func TestProject_LoanHorizonCappedAtRemaining(t *testing.T) {
	now := day(2026, time.September, 1)
	l := testLoan(t)
	l.PaymentsMadeCount = 10
	require.NoError(t, l.Recalculate())

	items := Project([]*loan.Loan{l}, nil, nil, FilterLoan, WindowAll, now)
	require.Len(t, items, 2)
	assert.Equal(t, 10, items[0].Occurrence)
	assert.Equal(t, 11, items[1].Occurrence)
}

func TestProject_SettledLoanContributesNothing(t *testing.T) {
	l := testLoan(t)
	l.PaymentsMadeCount = 12
	require.NoError(t, l.Recalculate())

	items := Project([]*loan.Loan{l}, nil, nil, FilterLoan, WindowAll, day(2026, time.September, 1))
	assert.Empty(t, items)
}

func TestProject_OverdueLoanInstallmentKept(t *testing.T) {
	// The loan started months ago and nothing was paid: the first projected
	// installment is the original one, still owed.
	now := day(2026, time.December, 1)
	l := testLoan(t)

	items := Project([]*loan.Loan{l}, nil, nil, FilterLoan, WindowAll, now)
	require.NotEmpty(t, items)
	assert.Equal(t, day(2026, time.September, 5), items[0].DueDate)
	assert.Equal(t, 0, items[0].Occurrence)
}

func TestProject_EqubCatchesUpFromStart(t *testing.T) {
	// Four weekly rounds have passed; the projection starts at the next one
	// and the occurrence number counts from the circle's start.
	now := day(2026, time.September, 29)

	items := Project(nil, []*equb.Group{testEqub()}, nil, FilterEqub, WindowAll, now)
	require.Len(t, items, 12)
	assert.Equal(t, day(2026, time.September, 30), items[0].DueDate)
	assert.Equal(t, 4, items[0].Occurrence)
	assert.Equal(t, 15, items[11].Occurrence)
}

func TestProject_EqubCappedAtRemainingRounds(t *testing.T) {
	g := testEqub()
	g.MembersCount = 6

	items := Project(nil, []*equb.Group{g}, nil, FilterEqub, WindowAll, day(2026, time.September, 1))
	assert.Len(t, items, 6)
}

func TestProject_CompletedEqubExcluded(t *testing.T) {
	g := testEqub()
	g.Status = equb.StatusCompleted

	items := Project(nil, []*equb.Group{g}, nil, FilterEqub, WindowAll, day(2026, time.September, 1))
	assert.Empty(t, items)
}

func TestProject_CategoryFilters(t *testing.T) {
	now := day(2026, time.September, 1)
	loans := []*loan.Loan{testLoan(t)}
	equbs := []*equb.Group{testEqub()}
	payments := []*planned.Payment{testPlanned()}

	for _, tc := range []struct {
		filter CategoryFilter
		source SourceType
	}{
		{FilterLoan, SourceLoan},
		{FilterEqub, SourceEqub},
		{FilterPlanned, SourcePlanned},
	} {
		items := Project(loans, equbs, payments, tc.filter, WindowAll, now)
		require.NotEmpty(t, items, "filter %s", tc.filter)
		for _, it := range items {
			assert.Equal(t, tc.source, it.Source)
		}
	}
}

func TestProject_TimeWindows(t *testing.T) {
	now := day(2026, time.September, 20)

	overdueOneDay := &planned.Payment{ID: "p-2", Title: "Rent", Amount: d(7000), DueDate: day(2026, time.September, 19)}
	longOverdue := &planned.Payment{ID: "p-3", Title: "Old Debt", Amount: d(300), DueDate: day(2026, time.September, 10)}
	farOut := &planned.Payment{ID: "p-4", Title: "Tax", Amount: d(2000), DueDate: day(2026, time.December, 10)}
	nearFuture := &planned.Payment{ID: "p-5", Title: "Internet", Amount: d(1200), DueDate: day(2026, time.September, 24)}
	payments := []*planned.Payment{overdueOneDay, longOverdue, farOut, nearFuture}

	// A 7-day window keeps the one-day-overdue item and the near-future
	// one, drops the rest of the past, and drops anything beyond the
	// horizon.
	within7 := Project(nil, nil, payments, FilterPlanned, Window7, now)
	require.Len(t, within7, 2)
	assert.Equal(t, "Rent", within7[0].Title)
	assert.Equal(t, "Internet", within7[1].Title)

	within90 := Project(nil, nil, payments, FilterPlanned, Window90, now)
	require.Len(t, within90, 3)
	assert.Equal(t, "Tax", within90[2].Title)

	all := Project(nil, nil, payments, FilterPlanned, WindowAll, now)
	assert.Len(t, all, 4)
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, FilterLoan, ParseCategory("LOAN"))
	assert.Equal(t, FilterAll, ParseCategory(""))
	assert.Equal(t, FilterAll, ParseCategory("bogus"))

	assert.Equal(t, Window30, ParseWindow("30"))
	assert.Equal(t, WindowAll, ParseWindow(""))
	assert.Equal(t, WindowAll, ParseWindow("45"))
}
