package loan

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestAmortize_ReferenceFigures(t *testing.T) {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	terms, err := Amortize(d(12000), d(14), 12, 0, start)
	require.NoError(t, err)

	assert.True(t, terms.TotalInterest.Equal(d(1680)), "total interest: %s", terms.TotalInterest)
	assert.True(t, terms.TotalPayable.Equal(d(13680)), "total payable: %s", terms.TotalPayable)
	assert.True(t, terms.Installment.Equal(d(1140)), "installment: %s", terms.Installment)
	assert.True(t, terms.Remaining.Equal(d(13680)))
	assert.Equal(t, 12, terms.PaymentsRemaining)
	assert.Equal(t, start.AddDate(0, 12, 0), terms.EndDate)
}

func TestAmortize_RemainingAfterPayments(t *testing.T) {
	terms, err := Amortize(d(12000), d(14), 12, 3, time.Now())
	require.NoError(t, err)

	assert.True(t, terms.Remaining.Equal(d(10260)), "remaining: %s", terms.Remaining)
	assert.Equal(t, 9, terms.PaymentsRemaining)
}

func TestAmortize_ZeroDurationRejected(t *testing.T) {
	_, err := Amortize(d(12000), d(14), 0, 0, time.Now())
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = Amortize(d(12000), d(14), -3, 0, time.Now())
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestAmortize_ClampsPaymentsMade(t *testing.T) {
	// Overshooting paymentsMade clamps to the full duration: nothing left.
	terms, err := Amortize(d(12000), d(14), 12, 40, time.Now())
	require.NoError(t, err)
	assert.True(t, terms.Remaining.IsZero(), "remaining: %s", terms.Remaining)
	assert.Equal(t, 0, terms.PaymentsRemaining)

	terms, err = Amortize(d(12000), d(14), 12, -2, time.Now())
	require.NoError(t, err)
	assert.True(t, terms.Remaining.Equal(d(13680)))
	assert.Equal(t, 12, terms.PaymentsRemaining)
}

func TestAmortize_ZeroInterest(t *testing.T) {
	terms, err := Amortize(d(6000), decimal.Zero, 6, 0, time.Now())
	require.NoError(t, err)

	assert.True(t, terms.TotalInterest.IsZero())
	assert.True(t, terms.Installment.Equal(d(1000)))
}

func TestRecalculate_EditRescalesRemaining(t *testing.T) {
	l := &Loan{
		TotalAmount:    d(12000),
		InterestRate:   d(14),
		DurationMonths: 12,
		StartDate:      time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, l.Recalculate())
	assert.True(t, l.RemainingAmount.Equal(d(13680)))

	// Changing only paymentsMadeCount must rescale remaining in full.
	l.PaymentsMadeCount = 3
	require.NoError(t, l.Recalculate())
	assert.True(t, l.RemainingAmount.Equal(d(10260)))
	assert.Equal(t, 9, l.PaymentsRemainingCount)
}

func TestRecalculate_Defaults(t *testing.T) {
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	l := &Loan{TotalAmount: d(5000), InterestRate: d(10), DurationMonths: 10, StartDate: start}

	require.NoError(t, l.Recalculate())
	assert.Equal(t, "MONTHLY", string(l.Recurrence))
	assert.Equal(t, start, l.NextPaymentDate)
}

func TestInstallmentDue_IncludesCompulsorySaving(t *testing.T) {
	l := &Loan{
		TotalAmount:             d(12000),
		InterestRate:            d(14),
		DurationMonths:          12,
		MonthlyCompulsorySaving: d(200),
		StartDate:               time.Now(),
	}
	require.NoError(t, l.Recalculate())
	assert.True(t, l.InstallmentDue().Equal(d(1340)))
}
