package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"spykes/internal/domain/identity"
	"spykes/internal/domain/influencer"
)

// InfluencerHandler handles influencer directory requests
type InfluencerHandler struct {
	influencers influencer.Reader
}

// NewInfluencerHandler creates a new influencer handler
func NewInfluencerHandler(influencers influencer.Reader) *InfluencerHandler {
	return &InfluencerHandler{influencers: influencers}
}

// ListInfluencers returns influencers by total followers, filtered by q, niche and band
func (h *InfluencerHandler) ListInfluencers(w http.ResponseWriter, r *http.Request) {
	filter, ok := influencerFilter(w, r)
	if !ok {
		return
	}

	list, err := h.influencers.ListInfluencers(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load influencers", err)
		return
	}

	respondWithJSON(w, http.StatusOK, filter.Apply(list))
}

// GetInfluencer returns a profile with platforms and recent metrics
func (h *InfluencerHandler) GetInfluencer(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	profile, err := h.influencers.GetProfile(r.Context(), handle)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Influencer not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to load influencer", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// influencerFilter reads q, niche and band, writing a 400 for an unknown band
func influencerFilter(w http.ResponseWriter, r *http.Request) (influencer.Filter, bool) {
	q := r.URL.Query()
	filter := influencer.Filter{
		Query: q.Get("q"),
		Niche: q.Get("niche"),
		Band:  influencer.Band(strings.ToLower(q.Get("band"))),
	}
	if !filter.Band.Valid() {
		respondWithError(w, http.StatusBadRequest, "Invalid band", nil)
		return filter, false
	}
	return filter, true
}
