package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/civicpulse/civicpulse-api/api"
	"github.com/civicpulse/civicpulse-api/cache"
	"github.com/civicpulse/civicpulse-api/config"
	"github.com/civicpulse/civicpulse-api/models"
)

// Snapshot handles the offline snapshot slot
type Snapshot struct {
	Store cache.SnapshotStore
}

// SaveSnapshotHandler overwrites the snapshot slot wholesale
func (s Snapshot) SaveSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	var snap models.OfflineSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if snap.LastUpdated.IsZero() {
		snap.LastUpdated = time.Now()
	}

	if err := s.Store.Save(r.Context(), snap); err != nil {
		config.ErrorStatus("failed to save snapshot", http.StatusInternalServerError, w, err)
		return
	}
	api.SnapshotSavesTotal.Inc()

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Snapshot saved"}`))
}

// GetSnapshotHandler returns the last saved snapshot for offline restore
func (s Snapshot) GetSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Store.Load(r.Context())
	if errors.Is(err, cache.ErrNoSnapshot) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "no snapshot stored"}`))
		return
	}
	if err != nil {
		config.ErrorStatus("failed to load snapshot", http.StatusInternalServerError, w, err)
		return
	}

	respB, err := json.Marshal(snap)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(respB)
}
