package roadmap

import (
	"context"
	"fmt"
	"sync"

	"github.com/abenezerg/pluszone/internal/loan"
	"github.com/abenezerg/pluszone/internal/platform/storage"
	"github.com/abenezerg/pluszone/pkg/logger"
)

// LoanPayer applies a loan's pay action. Satisfied by *loan.Service.
type LoanPayer interface {
	Pay(ctx context.Context, id string) (*loan.Loan, error)
}

// Tracker keeps the set of obligation instances marked handled. Marks are an
// overlay on the projection: settling an equb or planned item never touches
// the source entity, only a loan settle triggers the pay action. The roadmap
// is a projection, not the source of truth.
type Tracker struct {
	mu    sync.RWMutex
	store storage.KV
	log   *logger.Logger
	payer LoanPayer

	marks map[string]bool
}

// NewTracker loads the persisted settlement marks.
func NewTracker(ctx context.Context, store storage.KV, payer LoanPayer, log *logger.Logger) (*Tracker, error) {
	t := &Tracker{
		store: store,
		log:   log.WithField("component", "roadmap"),
		payer: payer,
		marks: make(map[string]bool),
	}
	if _, err := store.Get(ctx, storage.KeySettled, &t.marks); err != nil {
		return nil, fmt.Errorf("load settlement marks: %w", err)
	}
	if t.marks == nil {
		t.marks = make(map[string]bool)
	}
	return t, nil
}

// Settle marks one obligation instance handled. A loan settle also pays the
// installment; equb and planned settles are bookkeeping only. Settling an
// already-marked instance is a no-op, so the pay action fires at most once
// per installment.
func (t *Tracker) Settle(ctx context.Context, source SourceType, sourceID string, occurrence int) error {
	key := Key(source, sourceID, occurrence)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.marks[key] {
		return nil
	}

	if source == SourceLoan {
		if _, err := t.payer.Pay(ctx, sourceID); err != nil {
			return fmt.Errorf("pay loan %s: %w", sourceID, err)
		}
	}

	t.marks[key] = true
	t.persist(ctx)

	t.log.Info("obligation settled", "key", key)
	return nil
}

// Unsettle removes a mark. The underlying loan payment, if any, stands; this
// only clears the overlay.
func (t *Tracker) Unsettle(ctx context.Context, source SourceType, sourceID string, occurrence int) {
	key := Key(source, sourceID, occurrence)

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.marks[key] {
		return
	}
	delete(t.marks, key)
	t.persist(ctx)
}

// Settled reports whether an instance is marked handled.
func (t *Tracker) Settled(source SourceType, sourceID string, occurrence int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.marks[Key(source, sourceID, occurrence)]
}

// Annotate overlays the settled marks onto a projection.
func (t *Tracker) Annotate(items []Item) []Item {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := range items {
		items[i].Settled = t.marks[items[i].Key()]
	}
	return items
}

func (t *Tracker) persist(ctx context.Context) {
	if err := t.store.Set(ctx, storage.KeySettled, t.marks); err != nil {
		t.log.Error("persist settlement marks failed", "error", err)
	}
}
