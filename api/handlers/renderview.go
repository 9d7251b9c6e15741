package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/civicpulse/civicpulse-api/aggregation"
	"github.com/civicpulse/civicpulse-api/api"
	"github.com/civicpulse/civicpulse-api/config"
	"github.com/civicpulse/civicpulse-api/databases"
	"github.com/civicpulse/civicpulse-api/render"
)

// RenderView runs the per-view rendering mode selectors
type RenderView struct {
	RDB       databases.ReportDatabase
	Selectors map[string]*render.Selector
}

type renderResponse struct {
	View    string          `json:"view"`
	Mode    render.State    `json:"mode"`
	Payload json.RawMessage `json:"payload"`
}

func (rv RenderView) selector(w http.ResponseWriter, r *http.Request) (*render.Selector, string, bool) {
	view := mux.Vars(r)["view"]
	sel, ok := rv.Selectors[view]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "unknown view"}`))
		return nil, view, false
	}
	return sel, view, true
}

// RenderViewHandler renders the view's aggregate with whichever mode is
// active. Live and fallback payloads always carry the same numbers.
func (rv RenderView) RenderViewHandler(w http.ResponseWriter, r *http.Request) {
	sel, view, ok := rv.selector(w, r)
	if !ok {
		return
	}

	reports, err := rv.RDB.Find(context.TODO(), bson.M{"deleted": bson.M{"$ne": true}})
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusInternalServerError, w, err)
		return
	}

	agg := aggregation.Aggregate(reports, filterFromQuery(r), time.Now(), time.Local)
	mode, payload, err := sel.Render(agg)
	if err != nil {
		config.ErrorStatus("failed to render view", http.StatusInternalServerError, w, err)
		return
	}
	api.SelectorModeTransitions.WithLabelValues(view, string(mode)).Inc()

	respB, err := json.Marshal(renderResponse{View: view, Mode: mode, Payload: json.RawMessage(payload)})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(respB)
}

// RetryHandler is the manual override back toward live rendering
func (rv RenderView) RetryHandler(w http.ResponseWriter, r *http.Request) {
	sel, view, ok := rv.selector(w, r)
	if !ok {
		return
	}

	state := sel.Retry(r.Context())
	json.NewEncoder(w).Encode(map[string]string{"view": view, "mode": string(state)})
}

// FallbackHandler is the manual override pinning fallback rendering
func (rv RenderView) FallbackHandler(w http.ResponseWriter, r *http.Request) {
	sel, view, ok := rv.selector(w, r)
	if !ok {
		return
	}

	sel.ForceFallback()
	json.NewEncoder(w).Encode(map[string]string{"view": view, "mode": string(render.StateFallback)})
}
