package analysis

import (
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/mtuomin/moodwatch-go/internal/datastore"
	"github.com/mtuomin/moodwatch-go/internal/logging"
)

// Summary is the reporting-boundary view of the day's emotion and stress
// metrics, with values rounded to 2 decimals.
type Summary struct {
	EmotionIndex float64 `json:"emotion_index"`
	StressLevel  float64 `json:"stress_level"`
	TotalRecords int     `json:"total_records"`
	ValidRecords int     `json:"valid_records"`
}

// Summarize runs the emotion and stress engines over a snapshot of records
// and rounds at the boundary.
func Summarize(records []datastore.Observation) Summary {
	valid := 0
	for i := range records {
		if records[i].IsValid() {
			valid++
		}
	}

	return Summary{
		EmotionIndex: round2(EmotionIndex(records)),
		StressLevel:  round2(StressLevel(records)),
		TotalRecords: len(records),
		ValidRecords: valid,
	}
}

// Store is the subset of the datastore the analyzer reads from.
type Store interface {
	GetTodayObservations() ([]datastore.Observation, error)
	GetEmotionStats(date string) (map[string]int, error)
}

// Analyzer serves reporting-boundary results over the record store, caching
// computed "today" views for a short TTL so the presentation shell can poll
// freely without hitting the store on every request.
type Analyzer struct {
	store Store
	cache *cache.Cache
	log   *slog.Logger
}

const (
	cacheKeySummary  = "today-summary"
	cacheKeyTimeline = "today-timeline"
	cacheKeyFocus    = "today-focus"
)

// NewAnalyzer creates an analyzer over store. A non-positive ttl disables
// caching.
func NewAnalyzer(store Store, ttl time.Duration) *Analyzer {
	var c *cache.Cache
	if ttl > 0 {
		c = cache.New(ttl, 2*ttl)
	}
	return &Analyzer{
		store: store,
		cache: c,
		log:   logging.ForService("analysis"),
	}
}

func (a *Analyzer) cached(key string) (any, bool) {
	if a.cache == nil {
		return nil, false
	}
	return a.cache.Get(key)
}

func (a *Analyzer) remember(key string, value any) {
	if a.cache != nil {
		a.cache.Set(key, value, cache.DefaultExpiration)
	}
}

// TodaySummary computes (or serves from cache) today's emotion index and
// stress level.
func (a *Analyzer) TodaySummary() (Summary, error) {
	if v, ok := a.cached(cacheKeySummary); ok {
		return v.(Summary), nil
	}

	records, err := a.store.GetTodayObservations()
	if err != nil {
		return Summary{}, err
	}

	summary := Summarize(records)
	a.remember(cacheKeySummary, summary)
	a.log.Debug("computed today's summary",
		"total_records", summary.TotalRecords,
		"valid_records", summary.ValidRecords)
	return summary, nil
}

// TodayTimeline computes (or serves from cache) today's 30-minute emotion
// timeline.
func (a *Analyzer) TodayTimeline() ([]TimelinePoint, error) {
	if v, ok := a.cached(cacheKeyTimeline); ok {
		return v.([]TimelinePoint), nil
	}

	records, err := a.store.GetTodayObservations()
	if err != nil {
		return nil, err
	}

	timeline := Timeline(records)
	a.remember(cacheKeyTimeline, timeline)
	return timeline, nil
}

// TodayFocus computes (or serves from cache) today's focus session
// statistics.
func (a *Analyzer) TodayFocus() (FocusAnalysis, error) {
	if v, ok := a.cached(cacheKeyFocus); ok {
		return v.(FocusAnalysis), nil
	}

	records, err := a.store.GetTodayObservations()
	if err != nil {
		return FocusAnalysis{}, err
	}

	focus := FocusTime(records)
	a.remember(cacheKeyFocus, focus)
	return focus, nil
}

// EmotionStats returns per-emotion record counts for the given date
// ("2006-01-02"). Stats are not cached; the query is a single grouped
// count.
func (a *Analyzer) EmotionStats(date string) (map[string]int, error) {
	return a.store.GetEmotionStats(date)
}
