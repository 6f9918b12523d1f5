package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/abenezerg/pluszone/internal/ledger"
)

// WalletHandler exposes the channel balances.
type WalletHandler struct {
	ledger *ledger.Service
}

// NewWalletHandler creates a wallet handler.
func NewWalletHandler(l *ledger.Service) *WalletHandler {
	return &WalletHandler{ledger: l}
}

// GetBalances handles GET /balances.
func (h *WalletHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.ledger.Balances(), http.StatusOK)
}

type transferRequest struct {
	Amount decimal.Decimal `json:"amount"`
	From   ledger.Channel  `json:"from"`
	To     ledger.Channel  `json:"to"`
	Note   string          `json:"note,omitempty"`
}

// Transfer handles POST /balances/transfer: a convenience over recording a
// TRANSFER transaction directly.
func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tx, err := h.ledger.Record(r.Context(), ledger.RecordInput{
		Amount:   req.Amount,
		Type:     ledger.TypeTransfer,
		Method:   req.From,
		ToMethod: req.To,
		Note:     req.Note,
	})
	if err != nil {
		respondError(w, err.Error(), ledgerStatus(err))
		return
	}
	respondJSON(w, tx, http.StatusCreated)
}

// ReconcileResponse reports whether cached balances match the history.
type ReconcileResponse struct {
	Consistent bool   `json:"consistent"`
	Detail     string `json:"detail,omitempty"`
}

// Reconcile handles GET /balances/reconcile: recomputes every channel from
// the full transaction history and compares against the cached balances.
func (h *WalletHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Reconcile(); err != nil {
		respondJSON(w, ReconcileResponse{Consistent: false, Detail: err.Error()}, http.StatusOK)
		return
	}
	respondJSON(w, ReconcileResponse{Consistent: true}, http.StatusOK)
}
