package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports store reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health returns ok when the store answers a ping
func Health(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			respondWithError(w, http.StatusServiceUnavailable, "store unavailable", err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
