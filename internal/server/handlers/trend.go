// internal/server/handlers/trend.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"spykes/internal/domain/identity"
	"spykes/internal/domain/influencer"
	"spykes/internal/domain/trend"
	"spykes/internal/logger"
)

// TrendHandler handles trend-related HTTP requests
type TrendHandler struct {
	trends      trend.Reader
	influencers influencer.Reader
}

// NewTrendHandler creates a new trend handler
func NewTrendHandler(trends trend.Reader, influencers influencer.Reader) *TrendHandler {
	return &TrendHandler{
		trends:      trends,
		influencers: influencers,
	}
}

// ListTrends returns the top trends, optionally filtered by q, momentum and window
func (h *TrendHandler) ListTrends(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := trend.Filter{
		Query:    q.Get("q"),
		Momentum: trend.Momentum(strings.ToLower(q.Get("momentum"))),
		Window:   trend.Window(strings.ToLower(q.Get("window"))),
	}
	if !filter.Momentum.Valid() {
		respondWithError(w, http.StatusBadRequest, "Invalid momentum", nil)
		return
	}
	if !filter.Window.Valid() {
		respondWithError(w, http.StatusBadRequest, "Invalid window", nil)
		return
	}

	trends, err := h.trends.ListTrends(r.Context(), trend.DefaultListLimit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load trends", err)
		return
	}

	respondWithJSON(w, http.StatusOK, trend.Summarize(trends, filter))
}

// GetTrend returns one trend with its location breakdown
func (h *TrendHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	detail, err := h.trends.GetTrendDetail(r.Context(), slug)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Trend not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to load trend", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, detail)
}

// GetTrendInfluencers returns influencers active on a trend. Unknown slugs yield [].
func (h *TrendHandler) GetTrendInfluencers(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	impacts, err := h.influencers.TrendInfluencers(r.Context(), slug)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load trend influencers", err)
		return
	}

	respondWithJSON(w, http.StatusOK, impacts)
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.GetLogger("http").Errorw("Failed to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil && code >= 500 {
		logger.GetLogger("http").Errorw("HTTP error", "code", code, "message", message, "error", err)
	}

	respondWithJSON(w, code, map[string]string{"error": message})
}
