package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/abenezerg/pluszone/internal/ledger"
)

// TransactionHandler exposes the ledger over HTTP.
type TransactionHandler struct {
	ledger *ledger.Service
}

// NewTransactionHandler creates a transaction handler.
func NewTransactionHandler(l *ledger.Service) *TransactionHandler {
	return &TransactionHandler{ledger: l}
}

type transactionRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Type     ledger.Type     `json:"type"`
	Method   ledger.Channel  `json:"method"`
	ToMethod ledger.Channel  `json:"toMethod,omitempty"`
	Category string          `json:"category,omitempty"`
	Note     string          `json:"note,omitempty"`
	Vendor   string          `json:"vendor,omitempty"`
	Date     time.Time       `json:"date,omitempty"`
}

func (req transactionRequest) input() ledger.RecordInput {
	return ledger.RecordInput{
		Amount:   req.Amount,
		Type:     req.Type,
		Method:   req.Method,
		ToMethod: req.ToMethod,
		Category: req.Category,
		Note:     req.Note,
		Vendor:   req.Vendor,
		Date:     req.Date,
	}
}

func ledgerStatus(err error) int {
	if errors.Is(err, ledger.ErrInsufficientFunds) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

// Create handles POST /transactions.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tx, err := h.ledger.Record(r.Context(), req.input())
	if err != nil {
		respondError(w, err.Error(), ledgerStatus(err))
		return
	}
	respondJSON(w, tx, http.StatusCreated)
}

// List handles GET /transactions.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.ledger.Transactions(), http.StatusOK)
}

// Get handles GET /transactions/{id}.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.ledger.Transaction(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, "transaction not found", http.StatusNotFound)
		return
	}
	respondJSON(w, tx, http.StatusOK)
}

// Update handles PUT /transactions/{id}. Editing an id that no longer
// exists is a no-op, answered with 204.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tx, err := h.ledger.Edit(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		respondError(w, err.Error(), ledgerStatus(err))
		return
	}
	if tx == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, tx, http.StatusOK)
}

// Delete handles DELETE /transactions/{id}. Deleting a missing id is a
// no-op as well.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
