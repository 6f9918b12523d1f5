// Package loan manages installment loans and the amortization math that
// derives their repayment figures.
package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/abenezerg/pluszone/internal/ledger"
	"github.com/abenezerg/pluszone/internal/schedule"
)

// Loan is an installment loan. The fields from MonthlyRepayment down are
// derived via Amortize and recomputed in full on every edit.
// MonthlyRepayment keeps its historical name: it is the periodic installment
// under whatever recurrence the loan is configured with.
type Loan struct {
	ID                      string          `json:"id"`
	LoanName                string          `json:"loanName"`
	LenderName              string          `json:"lenderName"`
	TotalAmount             decimal.Decimal `json:"totalAmount"`
	InterestRate            decimal.Decimal `json:"interestRate"` // percent per annum
	DurationMonths          int             `json:"durationMonths"`
	StartDate               time.Time       `json:"startDate"`
	Recurrence              schedule.Rule   `json:"recurrence"`
	MonthlyCompulsorySaving decimal.Decimal `json:"monthlyCompulsorySaving"`
	PaymentsMadeCount       int             `json:"paymentsMadeCount"`
	NextPaymentDate         time.Time       `json:"nextPaymentDate"`
	PaymentMethod           ledger.Channel  `json:"paymentMethod"`

	MonthlyRepayment       decimal.Decimal `json:"monthlyRepayment"`
	TotalInterest          decimal.Decimal `json:"totalInterest"`
	TotalPayableAmount     decimal.Decimal `json:"totalPayableAmount"`
	RemainingAmount        decimal.Decimal `json:"remainingAmount"`
	PaymentsRemainingCount int             `json:"paymentsRemainingCount"`
	EndDate                time.Time       `json:"endDate"`
}

// Terms are the derived amortization figures for a loan.
type Terms struct {
	TotalInterest     decimal.Decimal
	TotalPayable      decimal.Decimal
	Installment       decimal.Decimal
	Remaining         decimal.Decimal
	PaymentsRemaining int
	EndDate           time.Time
}

// Amortize computes a loan's repayment figures from principal, simple
// pro-rated annual interest, and tenure:
//
//	totalInterest = principal * (rate/100) * (months/12)
//	installment   = (principal + totalInterest) / months
//
// paymentsMade is clamped to [0, durationMonths]. durationMonths < 1 is the
// caller's division-by-zero guard and is rejected outright.
func Amortize(principal, annualRatePercent decimal.Decimal, durationMonths, paymentsMade int, startDate time.Time) (Terms, error) {
	if durationMonths < 1 {
		return Terms{}, ErrInvalidDuration
	}
	if principal.Sign() < 0 {
		return Terms{}, ErrNegativePrincipal
	}
	if annualRatePercent.Sign() < 0 {
		return Terms{}, ErrNegativeRate
	}
	if paymentsMade < 0 {
		paymentsMade = 0
	}
	if paymentsMade > durationMonths {
		paymentsMade = durationMonths
	}

	months := decimal.NewFromInt(int64(durationMonths))
	totalInterest := principal.Mul(annualRatePercent).Mul(months).Div(decimal.NewFromInt(1200))
	totalPayable := principal.Add(totalInterest)
	installment := totalPayable.Div(months)
	remaining := totalPayable.Sub(installment.Mul(decimal.NewFromInt(int64(paymentsMade))))

	return Terms{
		TotalInterest:     totalInterest,
		TotalPayable:      totalPayable,
		Installment:       installment,
		Remaining:         remaining,
		PaymentsRemaining: durationMonths - paymentsMade,
		EndDate:           startDate.AddDate(0, durationMonths, 0),
	}, nil
}

// Recalculate refreshes every derived field from the loan's driving fields.
// Editing paymentsMadeCount alone rescales the remaining amount correctly
// because nothing is carried over incrementally.
func (l *Loan) Recalculate() error {
	if !l.Recurrence.Valid() {
		l.Recurrence = schedule.Monthly
	}

	terms, err := Amortize(l.TotalAmount, l.InterestRate, l.DurationMonths, l.PaymentsMadeCount, l.StartDate)
	if err != nil {
		return err
	}

	if l.PaymentsMadeCount > l.DurationMonths {
		l.PaymentsMadeCount = l.DurationMonths
	}
	if l.PaymentsMadeCount < 0 {
		l.PaymentsMadeCount = 0
	}

	l.MonthlyRepayment = terms.Installment
	l.TotalInterest = terms.TotalInterest
	l.TotalPayableAmount = terms.TotalPayable
	l.RemainingAmount = terms.Remaining
	l.PaymentsRemainingCount = terms.PaymentsRemaining
	l.EndDate = terms.EndDate

	if l.NextPaymentDate.IsZero() {
		l.NextPaymentDate = l.StartDate
	}
	return nil
}

// InstallmentDue is the full periodic obligation: the installment plus the
// mandatory saving set aside alongside it.
func (l *Loan) InstallmentDue() decimal.Decimal {
	return l.MonthlyRepayment.Add(l.MonthlyCompulsorySaving)
}

// Settled reports whether every installment has been paid.
func (l *Loan) Settled() bool {
	return l.PaymentsRemainingCount <= 0
}
