package roadmap

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abenezerg/pluszone/internal/equb"
	"github.com/abenezerg/pluszone/internal/ledger"
	"github.com/abenezerg/pluszone/internal/loan"
	"github.com/abenezerg/pluszone/internal/platform/storage"
	"github.com/abenezerg/pluszone/internal/schedule"
	"github.com/abenezerg/pluszone/pkg/logger"
)

type recorderStub struct{}

func (recorderStub) Record(_ context.Context, input ledger.RecordInput) (*ledger.Transaction, error) {
	return &ledger.Transaction{ID: "tx", Amount: input.Amount}, nil
}

func newFixture(t *testing.T) (*Tracker, *loan.Service, *storage.Memory) {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemory()
	log := logger.New("test", io.Discard)

	loans, err := loan.NewService(ctx, store, recorderStub{}, log)
	require.NoError(t, err)
	tracker, err := NewTracker(ctx, store, loans, log)
	require.NoError(t, err)
	return tracker, loans, store
}

func createLoan(t *testing.T, loans *loan.Service) *loan.Loan {
	t.Helper()
	l, err := loans.Create(context.Background(), loan.Input{
		LoanName:       "Motorbike",
		LenderName:     "Awash Bank",
		TotalAmount:    d(12000),
		InterestRate:   d(14),
		DurationMonths: 12,
		StartDate:      day(2026, time.September, 5),
		Recurrence:     schedule.Monthly,
		PaymentMethod:  ledger.ChannelCBE,
	})
	require.NoError(t, err)
	return l
}

func TestSettleLoan_PaysExactlyOnce(t *testing.T) {
	tracker, loans, _ := newFixture(t)
	ctx := context.Background()
	l := createLoan(t, loans)

	require.NoError(t, tracker.Settle(ctx, SourceLoan, l.ID, 0))

	got, err := loans.Get(l.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PaymentsMadeCount)
	assert.True(t, got.RemainingAmount.Equal(d(12540)), "13680 minus one installment, got %s", got.RemainingAmount)

	// Settling the same occurrence again is a no-op, not a second payment.
	require.NoError(t, tracker.Settle(ctx, SourceLoan, l.ID, 0))
	got, err = loans.Get(l.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PaymentsMadeCount)

	assert.True(t, tracker.Settled(SourceLoan, l.ID, 0))
	assert.False(t, tracker.Settled(SourceLoan, l.ID, 1))
}

func TestSettleLoan_PayFailureLeavesUnmarked(t *testing.T) {
	tracker, _, _ := newFixture(t)
	ctx := context.Background()

	err := tracker.Settle(ctx, SourceLoan, "missing", 0)
	assert.ErrorIs(t, err, loan.ErrNotFound)
	assert.False(t, tracker.Settled(SourceLoan, "missing", 0))
}

func TestSettleEqub_DoesNotAdvanceRound(t *testing.T) {
	tracker, _, store := newFixture(t)
	ctx := context.Background()
	log := logger.New("test", io.Discard)

	equbs, err := equb.NewService(ctx, store, log)
	require.NoError(t, err)
	g, err := equbs.Create(ctx, equb.Input{
		Name:               "Office Equb",
		MembersCount:       20,
		ContributionAmount: d(500),
		Frequency:          schedule.Weekly,
		StartDate:          day(2026, time.September, 2),
	})
	require.NoError(t, err)

	require.NoError(t, tracker.Settle(ctx, SourceEqub, g.ID, 3))

	got, err := equbs.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.CurrentRound, got.CurrentRound, "a roadmap mark is bookkeeping only")
	assert.True(t, tracker.Settled(SourceEqub, g.ID, 3))
}

func TestSettlePlanned_KeyIgnoresOccurrence(t *testing.T) {
	tracker, _, _ := newFixture(t)
	ctx := context.Background()

	require.NoError(t, tracker.Settle(ctx, SourcePlanned, "planned-1", 0))
	assert.True(t, tracker.Settled(SourcePlanned, "planned-1", 7), "one-off items have a single mark")
}

func TestUnsettle_ClearsOverlayOnly(t *testing.T) {
	tracker, loans, _ := newFixture(t)
	ctx := context.Background()
	l := createLoan(t, loans)

	require.NoError(t, tracker.Settle(ctx, SourceLoan, l.ID, 0))
	tracker.Unsettle(ctx, SourceLoan, l.ID, 0)

	assert.False(t, tracker.Settled(SourceLoan, l.ID, 0))
	got, err := loans.Get(l.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PaymentsMadeCount, "the payment itself stands")
}

func TestAnnotate(t *testing.T) {
	tracker, loans, _ := newFixture(t)
	ctx := context.Background()
	l := createLoan(t, loans)

	require.NoError(t, tracker.Settle(ctx, SourceEqub, "equb-1", 4))

	items := []Item{
		{Source: SourceEqub, SourceID: "equb-1", Occurrence: 4},
		{Source: SourceEqub, SourceID: "equb-1", Occurrence: 5},
		{Source: SourceLoan, SourceID: l.ID, Occurrence: 0},
	}
	items = tracker.Annotate(items)
	assert.True(t, items[0].Settled)
	assert.False(t, items[1].Settled)
	assert.False(t, items[2].Settled)
}

func TestReload_RestoresMarks(t *testing.T) {
	tracker, loans, store := newFixture(t)
	ctx := context.Background()

	require.NoError(t, tracker.Settle(ctx, SourcePlanned, "planned-1", 0))

	reloaded, err := NewTracker(ctx, store, loans, logger.New("test", io.Discard))
	require.NoError(t, err)
	assert.True(t, reloaded.Settled(SourcePlanned, "planned-1", 0))
}
