package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/civicpulse/civicpulse-api/config"
	"github.com/civicpulse/civicpulse-api/geocode"
)

// Geocode handles forward-geocoding requests
type Geocode struct {
	Client *geocode.Client
}

// GeocodeHandler resolves a free-text place query. A miss is a transient,
// user-retryable condition, not a server failure.
func (g Geocode) GeocodeHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "q is required"}`))
		return
	}

	place, err := g.Client.Search(r.Context(), query)
	if errors.Is(err, geocode.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "location not found, please refine your search"}`))
		return
	}
	if err != nil {
		config.ErrorStatus("geocoding request failed", http.StatusBadGateway, w, err)
		return
	}

	respB, err := json.Marshal(place)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(respB)
}
