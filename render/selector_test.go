package render_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicpulse/civicpulse-api/connectivity"
	"github.com/civicpulse/civicpulse-api/models"
	"github.com/civicpulse/civicpulse-api/render"
)

func sampleAggregate() models.AnalyticsAggregate {
	return models.AnalyticsAggregate{
		Total: 5,
		ByCategory: map[models.Category]int{
			models.CategoryInfrastructure: 2,
			models.CategoryEnvironmental:  3,
		},
		ByStatus:   map[models.Status]int{models.StatusOpen: 5},
		ByPriority: map[models.Priority]int{models.PriorityMedium: 5},
		ByLocation: map[string]int{"Kochi, Kerala": 5},
		Trend: []models.TrendPoint{
			{Date: "2025-06-09", Count: 0},
			{Date: "2025-06-10", Count: 2},
			{Date: "2025-06-11", Count: 3},
		},
	}
}

type parsedPayload struct {
	Mode       string         `json:"mode"`
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"byCategory"`
}

func TestSelector_RetryBound(t *testing.T) {
	mon := connectivity.NewMonitor(true)
	loads := 0
	live := &render.LiveRenderer{
		Library: "chartjs",
		LoadFunc: func(ctx context.Context) error {
			loads++
			return errors.New("script load failed")
		},
	}

	sel := render.NewSelector("chart", live, &render.FallbackRenderer{}, mon)
	defer sel.Close()
	sel.Start(context.Background())

	// exactly one automatic retry: two load attempts total, then fallback
	assert.Equal(t, 2, loads)
	assert.Equal(t, render.StateFallback, sel.State())
}

func TestSelector_LoadsLiveWhenOnline(t *testing.T) {
	mon := connectivity.NewMonitor(true)
	sel := render.NewSelector("chart", &render.LiveRenderer{Library: "chartjs"}, &render.FallbackRenderer{}, mon)
	defer sel.Close()
	sel.Start(context.Background())

	assert.Equal(t, render.StateLiveRendering, sel.State())
}

func TestSelector_StartsFallbackWhenOffline(t *testing.T) {
	mon := connectivity.NewMonitor(false)
	sel := render.NewSelector("map", &render.LiveRenderer{Library: "leaflet"}, &render.FallbackRenderer{}, mon)
	defer sel.Close()
	sel.Start(context.Background())

	assert.Equal(t, render.StateFallback, sel.State())
}

func TestSelector_OfflineTransitionDegradesOnlineTransitionRecovers(t *testing.T) {
	mon := connectivity.NewMonitor(true)
	sel := render.NewSelector("chart", &render.LiveRenderer{Library: "chartjs"}, &render.FallbackRenderer{}, mon)
	defer sel.Close()
	sel.Start(context.Background())
	assert.Equal(t, render.StateLiveRendering, sel.State())

	mon.Set(false)
	assert.Equal(t, render.StateFallback, sel.State())

	// a fresh online transition reloads and recovers
	mon.Set(true)
	assert.Equal(t, render.StateLiveRendering, sel.State())
}

func TestSelector_ManualOverrides(t *testing.T) {
	mon := connectivity.NewMonitor(true)
	sel := render.NewSelector("chart", &render.LiveRenderer{Library: "chartjs"}, &render.FallbackRenderer{}, mon)
	defer sel.Close()
	sel.Start(context.Background())

	sel.ForceFallback()
	assert.Equal(t, render.StateFallback, sel.State())

	state := sel.Retry(context.Background())
	assert.Equal(t, render.StateLiveRendering, state)
}

func TestSelector_RenderSymmetry(t *testing.T) {
	agg := sampleAggregate()
	mon := connectivity.NewMonitor(true)
	sel := render.NewSelector("chart", &render.LiveRenderer{Library: "chartjs"}, &render.FallbackRenderer{}, mon)
	defer sel.Close()
	sel.Start(context.Background())

	mode, livePayload, err := sel.Render(agg)
	assert.NoError(t, err)
	assert.Equal(t, render.StateLiveRendering, mode)

	sel.ForceFallback()
	mode, fallbackPayload, err := sel.Render(agg)
	assert.NoError(t, err)
	assert.Equal(t, render.StateFallback, mode)

	var liveParsed, fallbackParsed parsedPayload
	assert.NoError(t, json.Unmarshal([]byte(livePayload), &liveParsed))
	assert.NoError(t, json.Unmarshal([]byte(fallbackPayload), &fallbackParsed))

	// the two modes differ in presentation only, never in the numbers
	assert.Equal(t, "live", liveParsed.Mode)
	assert.Equal(t, "fallback", fallbackParsed.Mode)
	assert.Equal(t, liveParsed.Total, fallbackParsed.Total)
	assert.Equal(t, liveParsed.ByCategory, fallbackParsed.ByCategory)
	assert.Equal(t, 2, fallbackParsed.ByCategory["Infrastructure"])
	assert.Equal(t, 3, fallbackParsed.ByCategory["Environmental"])
}

func TestSelector_LiveRenderFailureDegrades(t *testing.T) {
	mon := connectivity.NewMonitor(true)
	// LoadFunc succeeds but the library is then torn down: simulate by a
	// renderer whose Render always errors
	live := &failingRenderer{}
	sel := render.NewSelector("chart", live, &render.FallbackRenderer{}, mon)
	defer sel.Close()
	sel.Start(context.Background())
	assert.Equal(t, render.StateLiveRendering, sel.State())

	mode, payload, err := sel.Render(sampleAggregate())
	assert.NoError(t, err)
	assert.Equal(t, render.StateFallback, mode)
	assert.Contains(t, payload, `"fallback"`)
	assert.Equal(t, render.StateFallback, sel.State())
}

type failingRenderer struct{}

func (f *failingRenderer) Available() bool               { return true }
func (f *failingRenderer) Load(_ context.Context) error { return nil }
func (f *failingRenderer) Render(_ models.AnalyticsAggregate) (string, error) {
	return "", errors.New("draw call failed")
}
