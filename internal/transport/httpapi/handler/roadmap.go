package handler

import (
	"net/http"
	"time"

	"github.com/abenezerg/pluszone/internal/equb"
	"github.com/abenezerg/pluszone/internal/loan"
	"github.com/abenezerg/pluszone/internal/planned"
	"github.com/abenezerg/pluszone/internal/roadmap"
)

// RoadmapHandler serves the merged obligation roadmap. Each request projects
// fresh from the source services, then overlays the settlement marks.
type RoadmapHandler struct {
	loans    *loan.Service
	equbs    *equb.Service
	payments *planned.Service
	tracker  *roadmap.Tracker
}

// NewRoadmapHandler creates a roadmap handler.
func NewRoadmapHandler(l *loan.Service, e *equb.Service, p *planned.Service, t *roadmap.Tracker) *RoadmapHandler {
	return &RoadmapHandler{loans: l, equbs: e, payments: p, tracker: t}
}

// Get handles GET /roadmap?category=&window=.
func (h *RoadmapHandler) Get(w http.ResponseWriter, r *http.Request) {
	filter := roadmap.ParseCategory(r.URL.Query().Get("category"))
	window := roadmap.ParseWindow(r.URL.Query().Get("window"))

	items := roadmap.Project(h.loans.List(), h.equbs.List(), h.payments.List(), filter, window, time.Now().UTC())
	items = h.tracker.Annotate(items)
	if items == nil {
		items = []roadmap.Item{}
	}
	respondJSON(w, items, http.StatusOK)
}

type settleRequest struct {
	SourceType roadmap.SourceType `json:"sourceType"`
	SourceID   string             `json:"sourceId"`
	Occurrence int                `json:"occurrence,omitempty"`
}

func (req settleRequest) valid() bool {
	switch req.SourceType {
	case roadmap.SourceLoan, roadmap.SourceEqub, roadmap.SourcePlanned:
		return req.SourceID != ""
	}
	return false
}

// Settle handles POST /roadmap/settle.
func (h *RoadmapHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := decodeJSON(r, &req); err != nil || !req.valid() {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.tracker.Settle(r.Context(), req.SourceType, req.SourceID, req.Occurrence); err != nil {
		respondError(w, err.Error(), loanStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unsettle handles POST /roadmap/unsettle: clears a mark without touching
// the source entity.
func (h *RoadmapHandler) Unsettle(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := decodeJSON(r, &req); err != nil || !req.valid() {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.tracker.Unsettle(r.Context(), req.SourceType, req.SourceID, req.Occurrence)
	w.WriteHeader(http.StatusNoContent)
}
