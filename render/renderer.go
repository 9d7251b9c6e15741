// Package render chooses between the external rendering library and the
// local deterministic fallback for each view. Both paths draw from the same
// aggregation output; only the presentation differs.
package render

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/civicpulse/civicpulse-api/models"
)

// ErrRendererUnavailable is returned when a renderer is asked to draw before
// a successful load
var ErrRendererUnavailable = errors.New("renderer not loaded")

// Renderer is the capability interface over one rendering technique. The
// live adapter proxies an external visualization library; the fallback
// adapter needs no dependencies and can never fail to load.
type Renderer interface {
	Available() bool
	Load(ctx context.Context) error
	Render(agg models.AnalyticsAggregate) (string, error)
}

// payload is the wire shape both adapters emit. Identical numbers, different
// mode/library markers.
type payload struct {
	Mode       string               `json:"mode"`
	Library    string               `json:"library,omitempty"`
	Total      int                  `json:"total"`
	ByCategory map[string]int       `json:"byCategory"`
	ByStatus   map[string]int       `json:"byStatus"`
	ByPriority map[string]int       `json:"byPriority"`
	ByLocation map[string]int       `json:"byLocation"`
	Trend      []models.TrendPoint  `json:"trend"`
	Labels     []string             `json:"labels"`
}

func buildPayload(mode, library string, agg models.AnalyticsAggregate) payload {
	p := payload{
		Mode:       mode,
		Library:    library,
		Total:      agg.Total,
		ByCategory: map[string]int{},
		ByStatus:   map[string]int{},
		ByPriority: map[string]int{},
		ByLocation: map[string]int{},
		Trend:      agg.Trend,
	}
	for c, n := range agg.ByCategory {
		label := string(c.Label())
		p.ByCategory[label] = n
		p.Labels = append(p.Labels, label)
	}
	sort.Strings(p.Labels)
	for s, n := range agg.ByStatus {
		p.ByStatus[string(s)] = n
	}
	for pr, n := range agg.ByPriority {
		p.ByPriority[string(pr)] = n
	}
	for l, n := range agg.ByLocation {
		p.ByLocation[l] = n
	}
	return p
}

// LiveRenderer adapts an external visualization library. LoadFunc stands in
// for the dynamic library load and is injectable; a nil LoadFunc loads
// immediately.
type LiveRenderer struct {
	Library  string
	LoadFunc func(ctx context.Context) error
	loaded   bool
}

// Available always holds for the live adapter; availability is decided by
// Load succeeding, not by feature detection.
func (l *LiveRenderer) Available() bool { return true }

// Load initializes the external library
func (l *LiveRenderer) Load(ctx context.Context) error {
	if l.LoadFunc != nil {
		if err := l.LoadFunc(ctx); err != nil {
			return err
		}
	}
	l.loaded = true
	return nil
}

// Render emits the library draw payload for the aggregate
func (l *LiveRenderer) Render(agg models.AnalyticsAggregate) (string, error) {
	if !l.loaded {
		return "", ErrRendererUnavailable
	}
	b, err := json.Marshal(buildPayload("live", l.Library, agg))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FallbackRenderer is the dependency-free rendering path. It can always load
// and renders the same aggregate the live path would.
type FallbackRenderer struct{}

// Available always holds for the fallback path
func (f *FallbackRenderer) Available() bool { return true }

// Load is a no-op; the fallback has nothing to load
func (f *FallbackRenderer) Load(_ context.Context) error { return nil }

// Render emits the deterministic local payload for the aggregate
func (f *FallbackRenderer) Render(agg models.AnalyticsAggregate) (string, error) {
	b, err := json.Marshal(buildPayload("fallback", "", agg))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
