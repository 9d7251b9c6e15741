// Package classifier maps free report text to a category label with a
// confidence score and rationale. There is no model behind it; both paths
// are ordered keyword rule tables evaluated first-match.
package classifier

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/civicpulse/civicpulse-api/models"
)

// Default simulation parameters for the assistant path
const (
	defaultMinLatency  = 1 * time.Second
	defaultMaxLatency  = 2 * time.Second
	defaultFailureRate = 0.15
)

// Classifier runs the simulated-assistant table with injectable latency and
// failure behavior. A simulated failure is always recoverable: the offline
// table answers instead and the result carries the fallback flag.
type Classifier struct {
	minLatency  time.Duration
	maxLatency  time.Duration
	failureRate float64
	randFloat   func() float64
	sleep       func(ctx context.Context, d time.Duration)
}

// Option configures a Classifier
type Option func(*Classifier)

// WithLatency overrides the simulated latency window
func WithLatency(min, max time.Duration) Option {
	return func(c *Classifier) {
		c.minLatency, c.maxLatency = min, max
	}
}

// WithFailureRate overrides the synthetic failure probability
func WithFailureRate(rate float64) Option {
	return func(c *Classifier) { c.failureRate = rate }
}

// WithRand injects the random source so tests stay deterministic
func WithRand(f func() float64) Option {
	return func(c *Classifier) { c.randFloat = f }
}

// WithSleep injects the latency sleeper so tests do not wait
func WithSleep(f func(ctx context.Context, d time.Duration)) Option {
	return func(c *Classifier) { c.sleep = f }
}

// New builds a Classifier seeded for the simulated path
func New(seed int64, opts ...Option) *Classifier {
	rng := rand.New(rand.NewSource(seed))
	c := &Classifier{
		minLatency:  defaultMinLatency,
		maxLatency:  defaultMaxLatency,
		failureRate: defaultFailureRate,
		randFloat:   rng.Float64,
		sleep: func(ctx context.Context, d time.Duration) {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-t.C:
			case <-ctx.Done():
			}
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify runs the simulated assistant. On a synthetic failure it answers
// from the offline table instead of surfacing an error.
func (c *Classifier) Classify(ctx context.Context, text string) models.ClassificationResult {
	latency := c.minLatency
	if c.maxLatency > c.minLatency {
		latency += time.Duration(c.randFloat() * float64(c.maxLatency-c.minLatency))
	}
	c.sleep(ctx, latency)

	if c.randFloat() < c.failureRate {
		zap.S().Warnw("simulated assistant failure, falling back to offline rules")
		res := ClassifyOffline(text)
		res.Fallback = true
		return res
	}

	return matchTable(onlineRules, text)
}

// ClassifyOffline runs the dependency-free rule table. Pure function of the
// input text.
func ClassifyOffline(text string) models.ClassificationResult {
	return matchTable(offlineRules, text)
}

// matchTable applies the rules in order against the normalized input; the
// first matching rule wins. No match yields the Other default.
func matchTable(rules []rule, text string) models.ClassificationResult {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, r := range rules {
		if r.pattern.MatchString(normalized) {
			return models.ClassificationResult{
				Category:   r.category,
				Confidence: r.confidence,
				Rationale:  r.rationale,
			}
		}
	}
	return models.ClassificationResult{
		Category:   models.LabelOther,
		Confidence: 0.60,
		Rationale:  "No category keywords matched; defaulting to Other.",
		Fallback:   true,
	}
}
