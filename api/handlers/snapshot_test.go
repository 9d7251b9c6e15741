package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicpulse/civicpulse-api/api/handlers"
	"github.com/civicpulse/civicpulse-api/cache"
	"github.com/civicpulse/civicpulse-api/models"
)

func TestSnapshot_SaveThenGetRoundTrip(t *testing.T) {
	store := cache.NewMemoryStore()
	s := handlers.Snapshot{Store: store}

	body := `{"centerLatitude": 10.85, "centerLongitude": 76.27, "zoom": 7, "markers": [{"id": "a1", "latitude": 9.93, "longitude": 76.26, "label": "Pothole", "category": "Infrastructure", "colorKey": "orange", "statusKey": "open"}]}`
	req, err := http.NewRequest("PUT", "/api/v1/snapshot", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(s.SaveSnapshotHandler).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	req, err = http.NewRequest("GET", "/api/v1/snapshot", nil)
	if err != nil {
		t.Fatal(err)
	}
	rr = httptest.NewRecorder()
	http.HandlerFunc(s.GetSnapshotHandler).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var snap models.OfflineSnapshot
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, 10.85, snap.CenterLatitude)
	assert.Equal(t, 76.27, snap.CenterLongitude)
	assert.Equal(t, 7, snap.Zoom)
	assert.Len(t, snap.Markers, 1)
	assert.False(t, snap.LastUpdated.IsZero())
}

func TestSnapshot_GetSnapshotHandlerEmpty(t *testing.T) {
	s := handlers.Snapshot{Store: cache.NewMemoryStore()}

	req, err := http.NewRequest("GET", "/api/v1/snapshot", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(s.GetSnapshotHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, `{"error": "no snapshot stored"}`, rr.Body.String())
}

func TestSnapshot_SaveSnapshotHandlerInvalidBody(t *testing.T) {
	s := handlers.Snapshot{Store: cache.NewMemoryStore()}

	req, err := http.NewRequest("PUT", "/api/v1/snapshot", strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(s.SaveSnapshotHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
