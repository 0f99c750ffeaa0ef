package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"spykes/internal/domain/identity"
	"spykes/internal/service/shortlist"
)

// ShortlistHandler handles the campaign shortlist
type ShortlistHandler struct {
	service *shortlist.Service
}

// NewShortlistHandler creates a new shortlist handler
func NewShortlistHandler(service *shortlist.Service) *ShortlistHandler {
	return &ShortlistHandler{service: service}
}

type addShortlistRequest struct {
	Handle string `json:"handle"`
}

// ListShortlist returns the shortlisted influencers
func (h *ShortlistHandler) ListShortlist(w http.ResponseWriter, r *http.Request) {
	filter, ok := influencerFilter(w, r)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load shortlist", err)
		return
	}

	respondWithJSON(w, http.StatusOK, filter.Apply(items))
}

// AddToShortlist shortlists an influencer by handle. A body that does not
// decode is treated as a missing handle.
func (h *ShortlistHandler) AddToShortlist(w http.ResponseWriter, r *http.Request) {
	var req addShortlistRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "handle is required", nil)
		return
	}

	err := h.service.Add(r.Context(), req.Handle)
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
	case errors.Is(err, shortlist.ErrMissingHandle):
		respondWithError(w, http.StatusBadRequest, "handle is required", nil)
	case errors.Is(err, identity.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Influencer not found", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, "Failed to add to shortlist", err)
	}
}
