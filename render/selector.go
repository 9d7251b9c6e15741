package render

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/civicpulse/civicpulse-api/connectivity"
	"github.com/civicpulse/civicpulse-api/models"
)

// State of a rendering mode selector
type State string

// Selector states
const (
	StateLoading        State = "loading"
	StateLiveRendering  State = "live"
	StateFallback       State = "fallback"
	StateErrorTransient State = "error_transient"
)

// Selector decides, per view, whether the external rendering library or the
// local fallback draws the aggregate. A failed live load is retried exactly
// once before the selector settles in fallback; it leaves fallback only on a
// manual retry or a fresh online transition followed by a successful reload,
// never silently mid-session.
type Selector struct {
	mu       sync.Mutex
	view     string
	state    State
	live     Renderer
	fallback Renderer
	monitor  *connectivity.Monitor
	subID    int
}

// NewSelector wires a selector for one view and subscribes it to
// connectivity transitions
func NewSelector(view string, live, fallback Renderer, monitor *connectivity.Monitor) *Selector {
	s := &Selector{
		view:     view,
		state:    StateLoading,
		live:     live,
		fallback: fallback,
		monitor:  monitor,
	}
	s.subID = monitor.Subscribe(s.onConnectivity)
	return s
}

// Start performs the initial load decision
func (s *Selector) Start(ctx context.Context) {
	if !s.monitor.Online() || !s.live.Available() {
		s.setState(StateFallback)
		return
	}
	s.loadLive(ctx)
}

// State returns the current selector state
func (s *Selector) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Render draws the aggregate with whichever path is active. A live draw
// failure degrades to fallback for this and subsequent renders; it never
// surfaces as a terminal error.
func (s *Selector) Render(agg models.AnalyticsAggregate) (State, string, error) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if state == StateLiveRendering {
		out, err := s.live.Render(agg)
		if err == nil {
			return StateLiveRendering, out, nil
		}
		zap.S().Warnw("live render failed, degrading to fallback",
			"view", s.view,
			"error", err,
		)
		s.setState(StateFallback)
	}

	out, err := s.fallback.Render(agg)
	return StateFallback, out, err
}

// Retry is the explicit user override bringing the selector back toward live
// rendering
func (s *Selector) Retry(ctx context.Context) State {
	if !s.monitor.Online() {
		s.setState(StateFallback)
		return StateFallback
	}
	return s.loadLive(ctx)
}

// ForceFallback is the explicit user override pinning the fallback path
func (s *Selector) ForceFallback() {
	s.setState(StateFallback)
}

// Close unsubscribes from connectivity notifications
func (s *Selector) Close() {
	s.monitor.Unsubscribe(s.subID)
}

// loadLive attempts the external library load with the bounded single retry
func (s *Selector) loadLive(ctx context.Context) State {
	s.setState(StateLoading)

	if err := s.live.Load(ctx); err != nil {
		s.setState(StateErrorTransient)
		zap.S().Warnw("renderer load failed, retrying once",
			"view", s.view,
			"error", err,
		)
		if err := s.live.Load(ctx); err != nil {
			zap.S().Warnw("renderer retry failed, falling back",
				"view", s.view,
				"error", err,
			)
			s.setState(StateFallback)
			return StateFallback
		}
	}

	s.setState(StateLiveRendering)
	return StateLiveRendering
}

func (s *Selector) onConnectivity(online bool) {
	if !online {
		s.setState(StateFallback)
		return
	}
	// fresh online transition: attempt a reload; stay in fallback on failure
	s.loadLive(context.Background())
}

func (s *Selector) setState(state State) {
	s.mu.Lock()
	prev := s.state
	s.state = state
	s.mu.Unlock()
	if prev != state {
		zap.S().Debugw("selector state changed",
			"view", s.view,
			"from", prev,
			"to", state,
		)
	}
}
