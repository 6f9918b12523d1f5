package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/abenezerg/pluszone/internal/planned"
)

// PlannedHandler exposes one-off planned payments over HTTP.
type PlannedHandler struct {
	payments *planned.Service
}

// NewPlannedHandler creates a planned payment handler.
func NewPlannedHandler(p *planned.Service) *PlannedHandler {
	return &PlannedHandler{payments: p}
}

type plannedRequest struct {
	Title   string          `json:"title"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate time.Time       `json:"dueDate"`
}

func (req plannedRequest) input() planned.Input {
	return planned.Input{
		Title:   req.Title,
		Amount:  req.Amount,
		DueDate: req.DueDate,
	}
}

func plannedStatus(err error) int {
	if errors.Is(err, planned.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// Create handles POST /planned-payments.
func (h *PlannedHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req plannedRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.payments.Create(r.Context(), req.input())
	if err != nil {
		respondError(w, err.Error(), plannedStatus(err))
		return
	}
	respondJSON(w, p, http.StatusCreated)
}

// List handles GET /planned-payments.
func (h *PlannedHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.payments.List(), http.StatusOK)
}

// Get handles GET /planned-payments/{id}.
func (h *PlannedHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.payments.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err.Error(), plannedStatus(err))
		return
	}
	respondJSON(w, p, http.StatusOK)
}

// Update handles PUT /planned-payments/{id}.
func (h *PlannedHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req plannedRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.payments.Update(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		respondError(w, err.Error(), plannedStatus(err))
		return
	}
	respondJSON(w, p, http.StatusOK)
}

// Delete handles DELETE /planned-payments/{id}.
func (h *PlannedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.payments.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err.Error(), plannedStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
