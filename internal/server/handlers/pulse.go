// internal/server/handlers/pulse.go

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cjblain10/tx-sentiment-landscape/internal/domain/sentiment"
)

// PulseService is the slice of the pulse service the HTTP layer needs.
type PulseService interface {
	Today(ctx context.Context) *sentiment.DailySnapshot
	History(days int) []sentiment.HistoryPoint
}

// PulseHandler handles sentiment HTTP requests
type PulseHandler struct {
	service PulseService
}

// NewPulseHandler creates a new pulse handler
func NewPulseHandler(service PulseService) *PulseHandler {
	return &PulseHandler{service: service}
}

// GetToday returns today's snapshot. The service degrades through cache
// and demo data internally, so this endpoint never returns an error
// response.
func (h *PulseHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	snap := h.service.Today(r.Context())
	respondWithJSON(w, http.StatusOK, snap)
}

// GetHistory returns the trend series for the requested day count.
func (h *PulseHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	respondWithJSON(w, http.StatusOK, h.service.History(days))
}

// GetHealth reports liveness
func (h *PulseHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
