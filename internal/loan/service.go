package loan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abenezerg/pluszone/internal/ledger"
	"github.com/abenezerg/pluszone/internal/platform/storage"
	"github.com/abenezerg/pluszone/internal/schedule"
	"github.com/abenezerg/pluszone/pkg/logger"
)

// Recorder records the auto-generated expense a loan payment produces.
// Satisfied by the ledger service.
type Recorder interface {
	Record(ctx context.Context, input ledger.RecordInput) (*ledger.Transaction, error)
}

// Service manages the loan collection and its lifecycle actions.
type Service struct {
	mu       sync.RWMutex
	store    storage.KV
	recorder Recorder
	log      *logger.Logger

	loans []*Loan
}

// Input carries the loan form fields. Derived figures are never accepted
// from the caller; they are recomputed on every create and update.
type Input struct {
	LoanName                string
	LenderName              string
	TotalAmount             decimal.Decimal
	InterestRate            decimal.Decimal
	DurationMonths          int
	PaymentsMadeCount       int
	StartDate               time.Time
	NextPaymentDate         time.Time
	Recurrence              schedule.Rule
	MonthlyCompulsorySaving decimal.Decimal
	PaymentMethod           ledger.Channel
}

// NewService loads the persisted loan collection.
func NewService(ctx context.Context, store storage.KV, recorder Recorder, log *logger.Logger) (*Service, error) {
	s := &Service{
		store:    store,
		recorder: recorder,
		log:      log.WithField("component", "loan"),
	}
	if _, err := store.Get(ctx, storage.KeyLoans, &s.loans); err != nil {
		return nil, fmt.Errorf("load loans: %w", err)
	}
	return s, nil
}

// Create registers a new loan with freshly derived amortization figures.
func (s *Service) Create(ctx context.Context, input Input) (*Loan, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	l := fromInput(input)
	l.ID = uuid.NewString()
	if err := l.Recalculate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loans = append([]*Loan{l}, s.loans...)
	s.persist(ctx)

	s.log.Info("loan created", "id", l.ID, "name", l.LoanName, "installment", l.MonthlyRepayment)
	return clone(l), nil
}

// Update replaces a loan's driving fields and recomputes everything derived.
func (s *Service) Update(ctx context.Context, id string, input Input) (*Loan, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	l := fromInput(input)
	l.ID = id
	if err := l.Recalculate(); err != nil {
		return nil, err
	}

	s.loans[idx] = l
	s.persist(ctx)

	s.log.Info("loan updated", "id", id, "payments_made", l.PaymentsMadeCount)
	return clone(l), nil
}

// Pay applies one installment: the payments-made counter increments, the
// derived figures rescale, the next payment date advances one period, and
// an auto-generated expense for installment + compulsory saving is recorded
// against the loan's payment channel.
func (s *Service) Pay(ctx context.Context, id string) (*Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	l := s.loans[idx]
	if l.Settled() {
		return nil, ErrAlreadySettled
	}

	due := l.InstallmentDue()
	if _, err := s.recorder.Record(ctx, ledger.RecordInput{
		Amount:        due,
		Type:          ledger.TypeExpense,
		Method:        l.PaymentMethod,
		Category:      "Loan Repayment",
		Note:          fmt.Sprintf("Installment %d/%d for %s", l.PaymentsMadeCount+1, l.DurationMonths, l.LoanName),
		Vendor:        l.LenderName,
		AutoGenerated: true,
	}); err != nil {
		return nil, fmt.Errorf("record repayment expense: %w", err)
	}

	l.PaymentsMadeCount++
	if err := l.Recalculate(); err != nil {
		return nil, err
	}
	l.NextPaymentDate = l.Recurrence.Next(l.NextPaymentDate)
	s.persist(ctx)

	s.log.Info("installment paid", "id", id, "payments_made", l.PaymentsMadeCount, "remaining", l.RemainingAmount)
	return clone(l), nil
}

// Delete removes a loan.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.loans = append(s.loans[:idx], s.loans[idx+1:]...)
	s.persist(ctx)

	s.log.Info("loan deleted", "id", id)
	return nil
}

// Get returns a copy of one loan.
func (s *Service) Get(id string) (*Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	return clone(s.loans[idx]), nil
}

// List returns copies of all loans, newest first.
func (s *Service) List() []*Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Loan, len(s.loans))
	for i, l := range s.loans {
		out[i] = clone(l)
	}
	return out
}

func (s *Service) indexOf(id string) int {
	for i, l := range s.loans {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) persist(ctx context.Context) {
	if err := s.store.Set(ctx, storage.KeyLoans, s.loans); err != nil {
		s.log.Error("persist loans failed", "error", err)
	}
}

func validate(input Input) error {
	if input.LoanName == "" {
		return ErrMissingName
	}
	if input.DurationMonths < 1 {
		return ErrInvalidDuration
	}
	if input.TotalAmount.Sign() < 0 {
		return ErrNegativePrincipal
	}
	if input.InterestRate.Sign() < 0 {
		return ErrNegativeRate
	}
	if !input.PaymentMethod.Valid() {
		return ErrInvalidChannel
	}
	return nil
}

func fromInput(input Input) *Loan {
	return &Loan{
		LoanName:                input.LoanName,
		LenderName:              input.LenderName,
		TotalAmount:             input.TotalAmount,
		InterestRate:            input.InterestRate,
		DurationMonths:          input.DurationMonths,
		PaymentsMadeCount:       input.PaymentsMadeCount,
		StartDate:               input.StartDate,
		NextPaymentDate:         input.NextPaymentDate,
		Recurrence:              input.Recurrence,
		MonthlyCompulsorySaving: input.MonthlyCompulsorySaving,
		PaymentMethod:           input.PaymentMethod,
	}
}

func clone(l *Loan) *Loan {
	cp := *l
	return &cp
}
