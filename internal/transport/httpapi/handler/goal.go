package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/abenezerg/pluszone/internal/goal"
	"github.com/abenezerg/pluszone/internal/ledger"
	"github.com/abenezerg/pluszone/internal/schedule"
)

// GoalHandler exposes savings goals over HTTP.
type GoalHandler struct {
	goals *goal.Service
}

// NewGoalHandler creates a goal handler.
func NewGoalHandler(g *goal.Service) *GoalHandler {
	return &GoalHandler{goals: g}
}

type goalRequest struct {
	Title                 string          `json:"title"`
	Type                  goal.Type       `json:"type"`
	TargetAmount          decimal.Decimal `json:"targetAmount"`
	CurrentAmount         decimal.Decimal `json:"currentAmount"`
	StartDate             time.Time       `json:"startDate"`
	Deadline              time.Time       `json:"deadline"`
	FundingSource         ledger.Channel  `json:"fundingSource"`
	ContributionFrequency schedule.Rule   `json:"contributionFrequency"`
	ContributionAmount    decimal.Decimal `json:"contributionAmount,omitempty"`
}

func (req goalRequest) input() goal.Input {
	return goal.Input{
		Title:                 req.Title,
		Type:                  req.Type,
		TargetAmount:          req.TargetAmount,
		CurrentAmount:         req.CurrentAmount,
		StartDate:             req.StartDate,
		Deadline:              req.Deadline,
		FundingSource:         req.FundingSource,
		ContributionFrequency: req.ContributionFrequency,
		ContributionAmount:    req.ContributionAmount,
	}
}

// goalResponse decorates a goal with its derived progress status.
type goalResponse struct {
	*goal.Goal
	Status goal.Status `json:"status"`
}

func toGoalResponse(g *goal.Goal) goalResponse {
	return goalResponse{
		Goal:   g,
		Status: g.ProgressStatus(time.Now().UTC()),
	}
}

func goalStatus(err error) int {
	if errors.Is(err, goal.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// Create handles POST /goals.
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	g, err := h.goals.Create(r.Context(), req.input())
	if err != nil {
		respondError(w, err.Error(), goalStatus(err))
		return
	}
	respondJSON(w, toGoalResponse(g), http.StatusCreated)
}

// List handles GET /goals.
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	goals := h.goals.List()
	out := make([]goalResponse, len(goals))
	for i, g := range goals {
		out[i] = toGoalResponse(g)
	}
	respondJSON(w, out, http.StatusOK)
}

// Get handles GET /goals/{id}.
func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.goals.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err.Error(), goalStatus(err))
		return
	}
	respondJSON(w, toGoalResponse(g), http.StatusOK)
}

// Update handles PUT /goals/{id}.
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	g, err := h.goals.Update(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		respondError(w, err.Error(), goalStatus(err))
		return
	}
	respondJSON(w, toGoalResponse(g), http.StatusOK)
}

// Delete handles DELETE /goals/{id}.
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.goals.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err.Error(), goalStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
