package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/civicpulse/civicpulse-api/api"
	"github.com/civicpulse/civicpulse-api/classifier"
	"github.com/civicpulse/civicpulse-api/config"
)

// Classify handles classification requests for the submission assistant
type Classify struct {
	Classifier *classifier.Classifier
}

type classifyRequest struct {
	Text string `json:"text"`
}

// ClassifyHandler classifies free report text. A simulated assistant failure
// is answered by the offline rules, never surfaced as an error.
func (c Classify) ClassifyHandler(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "text is required"}`))
		return
	}

	result := c.Classifier.Classify(r.Context(), req.Text)
	if result.Fallback {
		api.ClassifierFallbacksTotal.Inc()
	}

	respB, err := json.Marshal(result)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(respB)
}
