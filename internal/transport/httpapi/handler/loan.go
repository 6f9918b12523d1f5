package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/abenezerg/pluszone/internal/ledger"
	"github.com/abenezerg/pluszone/internal/loan"
	"github.com/abenezerg/pluszone/internal/schedule"
)

// LoanHandler exposes loans over HTTP.
type LoanHandler struct {
	loans *loan.Service
}

// NewLoanHandler creates a loan handler.
func NewLoanHandler(l *loan.Service) *LoanHandler {
	return &LoanHandler{loans: l}
}

type loanRequest struct {
	LoanName                string          `json:"loanName"`
	LenderName              string          `json:"lenderName"`
	TotalAmount             decimal.Decimal `json:"totalAmount"`
	InterestRate            decimal.Decimal `json:"interestRate"`
	DurationMonths          int             `json:"durationMonths"`
	PaymentsMadeCount       int             `json:"paymentsMadeCount,omitempty"`
	StartDate               time.Time       `json:"startDate"`
	NextPaymentDate         time.Time       `json:"nextPaymentDate,omitempty"`
	Recurrence              schedule.Rule   `json:"recurrence,omitempty"`
	MonthlyCompulsorySaving decimal.Decimal `json:"monthlyCompulsorySaving,omitempty"`
	PaymentMethod           ledger.Channel  `json:"paymentMethod"`
}

func (req loanRequest) input() loan.Input {
	return loan.Input{
		LoanName:                req.LoanName,
		LenderName:              req.LenderName,
		TotalAmount:             req.TotalAmount,
		InterestRate:            req.InterestRate,
		DurationMonths:          req.DurationMonths,
		PaymentsMadeCount:       req.PaymentsMadeCount,
		StartDate:               req.StartDate,
		NextPaymentDate:         req.NextPaymentDate,
		Recurrence:              req.Recurrence,
		MonthlyCompulsorySaving: req.MonthlyCompulsorySaving,
		PaymentMethod:           req.PaymentMethod,
	}
}

func loanStatus(err error) int {
	switch {
	case errors.Is(err, loan.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, loan.ErrAlreadySettled):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// Create handles POST /loans.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	l, err := h.loans.Create(r.Context(), req.input())
	if err != nil {
		respondError(w, err.Error(), loanStatus(err))
		return
	}
	respondJSON(w, l, http.StatusCreated)
}

// List handles GET /loans.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.loans.List(), http.StatusOK)
}

// Get handles GET /loans/{id}.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.loans.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err.Error(), loanStatus(err))
		return
	}
	respondJSON(w, l, http.StatusOK)
}

// Update handles PUT /loans/{id}.
func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	l, err := h.loans.Update(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		respondError(w, err.Error(), loanStatus(err))
		return
	}
	respondJSON(w, l, http.StatusOK)
}

// Pay handles POST /loans/{id}/pay: records the installment expense and
// advances the schedule.
func (h *LoanHandler) Pay(w http.ResponseWriter, r *http.Request) {
	l, err := h.loans.Pay(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err.Error(), loanStatus(err))
		return
	}
	respondJSON(w, l, http.StatusOK)
}

// Delete handles DELETE /loans/{id}.
func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.loans.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err.Error(), loanStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
