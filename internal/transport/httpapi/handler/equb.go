package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/abenezerg/pluszone/internal/equb"
	"github.com/abenezerg/pluszone/internal/schedule"
)

// EqubHandler exposes equb circles over HTTP.
type EqubHandler struct {
	equbs *equb.Service
}

// NewEqubHandler creates an equb handler.
func NewEqubHandler(e *equb.Service) *EqubHandler {
	return &EqubHandler{equbs: e}
}

type equbRequest struct {
	Name               string          `json:"name"`
	MembersCount       int             `json:"membersCount"`
	ContributionAmount decimal.Decimal `json:"contributionAmount"`
	Frequency          schedule.Rule   `json:"frequency"`
	StartDate          time.Time       `json:"startDate"`
	CurrentRound       int             `json:"currentRound,omitempty"`
	MyTurnIndex        int             `json:"myTurnIndex,omitempty"`
	JoinedAtRound      int             `json:"joinedAtRound,omitempty"`
}

func (req equbRequest) input() equb.Input {
	return equb.Input{
		Name:               req.Name,
		MembersCount:       req.MembersCount,
		ContributionAmount: req.ContributionAmount,
		Frequency:          req.Frequency,
		StartDate:          req.StartDate,
		CurrentRound:       req.CurrentRound,
		MyTurnIndex:        req.MyTurnIndex,
		JoinedAtRound:      req.JoinedAtRound,
	}
}

// equbResponse decorates a circle with its derived display fields.
type equbResponse struct {
	*equb.Group
	PotAmount    decimal.Decimal `json:"potAmount"`
	MaturityDate time.Time       `json:"maturityDate"`
	MyTurnPassed bool            `json:"myTurnPassed"`
}

func toEqubResponse(g *equb.Group) equbResponse {
	return equbResponse{
		Group:        g,
		PotAmount:    g.PotAmount(),
		MaturityDate: g.MaturityDate(),
		MyTurnPassed: g.MyTurnPassed(),
	}
}

func equbStatus(err error) int {
	switch {
	case errors.Is(err, equb.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, equb.ErrCompleted):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// Create handles POST /equbs.
func (h *EqubHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req equbRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	g, err := h.equbs.Create(r.Context(), req.input())
	if err != nil {
		respondError(w, err.Error(), equbStatus(err))
		return
	}
	respondJSON(w, toEqubResponse(g), http.StatusCreated)
}

// List handles GET /equbs.
func (h *EqubHandler) List(w http.ResponseWriter, r *http.Request) {
	groups := h.equbs.List()
	out := make([]equbResponse, len(groups))
	for i, g := range groups {
		out[i] = toEqubResponse(g)
	}
	respondJSON(w, out, http.StatusOK)
}

// Get handles GET /equbs/{id}.
func (h *EqubHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.equbs.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err.Error(), equbStatus(err))
		return
	}
	respondJSON(w, toEqubResponse(g), http.StatusOK)
}

// Update handles PUT /equbs/{id}.
func (h *EqubHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req equbRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	g, err := h.equbs.Update(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		respondError(w, err.Error(), equbStatus(err))
		return
	}
	respondJSON(w, toEqubResponse(g), http.StatusOK)
}

// SettleRound handles POST /equbs/{id}/settle-round: the explicit action
// that advances the circle's round counter.
func (h *EqubHandler) SettleRound(w http.ResponseWriter, r *http.Request) {
	g, err := h.equbs.SettleRound(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err.Error(), equbStatus(err))
		return
	}
	respondJSON(w, toEqubResponse(g), http.StatusOK)
}

// Delete handles DELETE /equbs/{id}.
func (h *EqubHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.equbs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err.Error(), equbStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
