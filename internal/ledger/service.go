package ledger

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

// Service is the ledger reconciliation engine. It keeps the cached channel
// balances consistent with the transaction history as records are created,
// edited, and deleted. All operations are atomic from the caller's
// perspective: validation happens against a working copy of the balances,
// and state is only swapped in once the whole delta is known to apply.
type Service struct {
	mu    sync.RWMutex
	store storage.KV
	log   *logger.Logger

	transactions []*Transaction
	balances     Balances
	opening      Balances // baseline derived at load time, used by Reconcile
}

// RecordInput carries the fields of a transaction to create or the new
// values of one being edited.
type RecordInput struct {
	Amount        decimal.Decimal
	Type          Type
	Method        Channel
	ToMethod      Channel
	Category      string
	Note          string
	Vendor        string
	Date          time.Time
	AutoGenerated bool
}

// NewService loads the persisted ledger state, falling back to the seed
// baseline when nothing has been stored yet.
func NewService(ctx context.Context, store storage.KV, log *logger.Logger) (*Service, error) {
	s := &Service{
		store: store,
		log:   log.WithField("component", "ledger"),
	}

	var txns []*Transaction
	if _, err := store.Get(ctx, storage.KeyTransactions, &txns); err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	s.transactions = txns

	balances := Balances{}
	found, err := store.Get(ctx, storage.KeyBalances, &balances)
	if err != nil {
		return nil, fmt.Errorf("load balances: %w", err)
	}
	if !found || len(balances) == 0 {
		balances = DefaultBalances()
	}
	for _, ch := range Channels() {
		if _, ok := balances[ch]; !ok {
			balances[ch] = decimal.Zero
		}
	}
	s.balances = balances

	// Derive the opening baseline by unwinding every stored transaction
	// from the cached balances. Reconcile checks against this later.
	opening := balances.Clone()
	for _, tx := range s.transactions {
		reverseDelta(opening, tx)
	}
	s.opening = opening

	return s, nil
}

// Record validates the input, creates the transaction, and applies its
// balance delta. Nothing is mutated when validation fails.
func (s *Service) Record(ctx context.Context, input RecordInput) (*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	input = normalize(input)
	if err := validate(input, s.balances); err != nil {
		return nil, err
	}

	tx := &Transaction{
		ID:              uuid.NewString(),
		Amount:          input.Amount,
		Type:            input.Type,
		Method:          input.Method,
		ToMethod:        input.ToMethod,
		Category:        input.Category,
		Note:            input.Note,
		Vendor:          input.Vendor,
		Date:            input.Date,
		IsAutoGenerated: input.AutoGenerated,
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now().UTC()
	}

	applyDelta(s.balances, tx)
	s.transactions = append([]*Transaction{tx}, s.transactions...)
	s.persist(ctx)

	s.log.Info("transaction recorded", "id", tx.ID, "type", tx.Type, "method", tx.Method, "amount", tx.Amount)
	return cloneTx(tx), nil
}

// Edit replaces a transaction's fields, first reversing the old record's
// balance delta and then applying the new one. A naive overwrite would let
// balances drift. An unknown id is a no-op, not a fault.
func (s *Service) Edit(ctx context.Context, id string, input RecordInput) (*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.log.Debug("edit of unknown transaction ignored", "id", id)
		return nil, nil
	}
	old := s.transactions[idx]

	// Validate the new delta against the balances as they would stand with
	// the old delta reversed, so a rejected edit leaves no partial state.
	input = normalize(input)
	work := s.balances.Clone()
	reverseDelta(work, old)
	if err := validate(input, work); err != nil {
		return nil, err
	}

	updated := &Transaction{
		ID:              old.ID,
		Amount:          input.Amount,
		Type:            input.Type,
		Method:          input.Method,
		ToMethod:        input.ToMethod,
		Category:        input.Category,
		Note:            input.Note,
		Vendor:          input.Vendor,
		Date:            input.Date,
		IsAutoGenerated: old.IsAutoGenerated,
	}
	if updated.Date.IsZero() {
		updated.Date = old.Date
	}

	applyDelta(work, updated)
	s.balances = work
	s.transactions[idx] = updated
	s.persist(ctx)

	s.log.Info("transaction edited", "id", id, "type", updated.Type, "amount", updated.Amount)
	return cloneTx(updated), nil
}

// Delete reverses the transaction's balance delta and removes the record.
// An unknown id is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.log.Debug("delete of unknown transaction ignored", "id", id)
		return nil
	}

	reverseDelta(s.balances, s.transactions[idx])
	s.transactions = append(s.transactions[:idx], s.transactions[idx+1:]...)
	s.persist(ctx)

	s.log.Info("transaction deleted", "id", id)
	return nil
}

// Transaction returns a copy of the record with the given id.
func (s *Service) Transaction(id string) (*Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	return cloneTx(s.transactions[idx]), true
}

// Transactions returns copies of all records, newest first.
func (s *Service) Transactions() []*Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Transaction, len(s.transactions))
	for i, tx := range s.transactions {
		out[i] = cloneTx(tx)
	}
	return out
}

// Balances returns a copy of the current channel balances.
func (s *Service) Balances() Balances {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances.Clone()
}

// Reconcile recomputes every channel balance from the opening baseline and
// the full transaction history and compares it to the cached value.
func (s *Service) Reconcile() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	computed := s.opening.Clone()
	for _, tx := range s.transactions {
		applyDelta(computed, tx)
	}

	for _, ch := range Channels() {
		if !computed[ch].Equal(s.balances[ch]) {
			return fmt.Errorf("%w: channel %s cached=%s computed=%s",
				ErrBalanceMismatch, ch, s.balances[ch], computed[ch])
		}
	}
	return nil
}

func (s *Service) indexOf(id string) int {
	for i, tx := range s.transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

// persist writes the ledger state to the store. Failures are logged and
// otherwise ignored; there is no rollback for a local-only store.
func (s *Service) persist(ctx context.Context) {
	if err := s.store.Set(ctx, storage.KeyTransactions, s.transactions); err != nil {
		s.log.Error("persist transactions failed", "error", err)
	}
	if err := s.store.Set(ctx, storage.KeyBalances, s.balances); err != nil {
		s.log.Error("persist balances failed", "error", err)
	}
}

// normalize clears fields that do not apply to the transaction type.
func normalize(input RecordInput) RecordInput {
	if input.Type != TypeTransfer {
		input.ToMethod = ""
	}
	return input
}

func validate(input RecordInput, balances Balances) error {
	if input.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if !input.Type.Valid() {
		return ErrInvalidType
	}
	if !input.Method.Valid() {
		return ErrInvalidChannel
	}
	if input.Type == TypeTransfer {
		if input.ToMethod == "" {
			return ErrMissingTransferTo
		}
		if !input.ToMethod.Valid() {
			return ErrInvalidChannel
		}
		if input.ToMethod == input.Method {
			return ErrSameChannel
		}
		if balances[input.Method].LessThan(input.Amount) {
			return ErrInsufficientFunds
		}
	}
	return nil
}

// applyDelta applies a transaction's effect to the balances in place.
func applyDelta(b Balances, tx *Transaction) {
	switch tx.Type {
	case TypeIncome:
		b[tx.Method] = b[tx.Method].Add(tx.Amount)
	case TypeExpense:
		b[tx.Method] = b[tx.Method].Sub(tx.Amount)
	case TypeTransfer:
		b[tx.Method] = b[tx.Method].Sub(tx.Amount)
		b[tx.ToMethod] = b[tx.ToMethod].Add(tx.Amount)
	}
}

// reverseDelta undoes a transaction's effect on the balances in place.
func reverseDelta(b Balances, tx *Transaction) {
	switch tx.Type {
	case TypeIncome:
		b[tx.Method] = b[tx.Method].Sub(tx.Amount)
	case TypeExpense:
		b[tx.Method] = b[tx.Method].Add(tx.Amount)
	case TypeTransfer:
		b[tx.Method] = b[tx.Method].Add(tx.Amount)
		b[tx.ToMethod] = b[tx.ToMethod].Sub(tx.Amount)
	}
}

func cloneTx(tx *Transaction) *Transaction {
	cp := *tx
	return &cp
}
