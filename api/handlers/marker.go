package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/civicpulse/civicpulse-api/config"
	"github.com/civicpulse/civicpulse-api/databases"
	"github.com/civicpulse/civicpulse-api/markers"
	"github.com/civicpulse/civicpulse-api/models"
)

// Marker handles map marker requests
type Marker struct {
	RDB databases.ReportDatabase
}

// MarkersHandler returns the normalized marker set for all renderable
// reports. Reports without resolved coordinates are filtered, not errored.
func (m Marker) MarkersHandler(w http.ResponseWriter, r *http.Request) {
	reports, err := m.RDB.Find(context.TODO(), bson.M{"deleted": bson.M{"$ne": true}})
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusInternalServerError, w, err)
		return
	}

	mk := markers.Normalize(reports)
	if mk == nil {
		mk = []models.Marker{}
	}

	respB, err := json.Marshal(mk)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(respB)
}
