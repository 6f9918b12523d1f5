package handler

import (
	"net/http"
	"time"
)

// HealthResponse reports service health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// GetHealth handles GET /health.
func GetHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	}, http.StatusOK)
}

// GetLiveness handles GET /health/live.
func GetLiveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().UTC(),
	}, http.StatusOK)
}
