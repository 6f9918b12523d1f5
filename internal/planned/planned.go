// Package planned holds one-off payments the user has committed to but not
// yet made. They surface on the obligation roadmap alongside loan and equb
// occurrences.
package planned

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abenezerg/pluszone/internal/platform/storage"
	"github.com/abenezerg/pluszone/pkg/logger"
)

// Payment is a single dated obligation with no recurrence.
type Payment struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate time.Time       `json:"dueDate"`
}

// Service manages the planned payment collection.
type Service struct {
	mu    sync.RWMutex
	store storage.KV
	log   *logger.Logger

	payments []*Payment
}

// Input carries the planned payment form fields.
type Input struct {
	Title   string
	Amount  decimal.Decimal
	DueDate time.Time
}

// NewService loads the persisted planned payments.
func NewService(ctx context.Context, store storage.KV, log *logger.Logger) (*Service, error) {
	s := &Service{
		store: store,
		log:   log.WithField("component", "planned"),
	}
	if _, err := store.Get(ctx, storage.KeyPlanned, &s.payments); err != nil {
		return nil, fmt.Errorf("load planned payments: %w", err)
	}
	return s, nil
}

// Create registers a new planned payment.
func (s *Service) Create(ctx context.Context, input Input) (*Payment, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	p := &Payment{
		ID:      uuid.NewString(),
		Title:   input.Title,
		Amount:  input.Amount,
		DueDate: input.DueDate,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append([]*Payment{p}, s.payments...)
	s.persist(ctx)

	s.log.Info("planned payment created", "id", p.ID, "title", p.Title)
	return clone(p), nil
}

// Update replaces a planned payment's fields.
func (s *Service) Update(ctx context.Context, id string, input Input) (*Payment, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	p := &Payment{
		ID:      id,
		Title:   input.Title,
		Amount:  input.Amount,
		DueDate: input.DueDate,
	}
	s.payments[idx] = p
	s.persist(ctx)

	return clone(p), nil
}

// Delete removes a planned payment.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.payments = append(s.payments[:idx], s.payments[idx+1:]...)
	s.persist(ctx)

	s.log.Info("planned payment deleted", "id", id)
	return nil
}

// Get returns a copy of one planned payment.
func (s *Service) Get(id string) (*Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	return clone(s.payments[idx]), nil
}

// List returns copies of all planned payments, newest first.
func (s *Service) List() []*Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Payment, len(s.payments))
	for i, p := range s.payments {
		out[i] = clone(p)
	}
	return out
}

func (s *Service) indexOf(id string) int {
	for i, p := range s.payments {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) persist(ctx context.Context) {
	if err := s.store.Set(ctx, storage.KeyPlanned, s.payments); err != nil {
		s.log.Error("persist planned payments failed", "error", err)
	}
}

func validate(input Input) error {
	if input.Title == "" {
		return ErrMissingTitle
	}
	if input.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if input.DueDate.IsZero() {
		return ErrMissingDueDate
	}
	return nil
}

func clone(p *Payment) *Payment {
	cp := *p
	return &cp
}
