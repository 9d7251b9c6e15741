package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/civicpulse/civicpulse-api/config"
	"github.com/civicpulse/civicpulse-api/connectivity"
)

// Connectivity handles operator connectivity signals
type Connectivity struct {
	Monitor *connectivity.Monitor
}

type connectivityRequest struct {
	Online *bool `json:"online"`
}

// SetConnectivityHandler records an online/offline transition. The monitor
// trusts the signal; there is no probing behind it.
func (c Connectivity) SetConnectivityHandler(w http.ResponseWriter, r *http.Request) {
	var req connectivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Online == nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "online is required"}`))
		return
	}

	c.Monitor.Set(*req.Online)

	json.NewEncoder(w).Encode(map[string]bool{"online": c.Monitor.Online()})
}
