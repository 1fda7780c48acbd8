// Package monitor runs the sampling loop: one detector round-trip per tick,
// parsed and stored as an observation.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/mtuomin/moodwatch-go/internal/logging"
	"github.com/mtuomin/moodwatch-go/internal/observability"
	"github.com/mtuomin/moodwatch-go/internal/observation"
)

// Detector is the round-trip surface consumed by the loop.
type Detector interface {
	Detect() (string, error)
	Stop() error
}

// Monitor polls the detector at a fixed interval and ingests the results.
// Errors within a tick never abort the loop: a failed round-trip or insert
// is logged and counted, and the next tick proceeds normally.
type Monitor struct {
	detector Detector
	store    observation.Store
	metrics  *observability.Metrics
	interval time.Duration
	log      *slog.Logger
}

// New creates a monitor polling detector every interval.
func New(detector Detector, store observation.Store, metrics *observability.Metrics, interval time.Duration) *Monitor {
	return &Monitor{
		detector: detector,
		store:    store,
		metrics:  metrics,
		interval: interval,
		log:      logging.ForService("monitor"),
	}
}

// Run blocks, sampling until ctx is cancelled. The detector is stopped on
// the way out.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.log.Info("monitor loop started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitor loop stopping")
			return m.detector.Stop()
		case <-ticker.C:
			m.tick()
		}
	}
}

// tick performs one sample. No retry on failure; the caller gets another
// chance at the next tick.
func (m *Monitor) tick() {
	start := time.Now()
	raw, err := m.detector.Detect()
	m.metrics.DetectDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.metrics.DetectErrorsTotal.Inc()
		m.log.Error("detector round-trip failed", "error", err)
		return
	}

	obs, err := observation.Ingest(raw, time.Now(), m.store)
	if err != nil {
		m.metrics.StoreErrorsTotal.Inc()
		m.log.Error("failed to store observation", "error", err)
		return
	}
	if obs == nil {
		// unparsable response, the tick produced no record
		m.metrics.ParseFailuresTotal.Inc()
		return
	}

	m.metrics.DetectionsTotal.Inc()
	m.log.Debug("observation recorded",
		"id", obs.ID,
		"mapped_emotion", obs.MappedEmotion,
		"has_face", obs.HasFace,
		"is_away", obs.IsAway)
}
