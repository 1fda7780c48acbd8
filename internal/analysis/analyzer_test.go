package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtuomin/moodwatch-go/internal/datastore"
)

// fakeStore counts queries so cache behavior is observable.
type fakeStore struct {
	records []datastore.Observation
	stats   map[string]int
	queries int
}

func (f *fakeStore) GetTodayObservations() ([]datastore.Observation, error) {
	f.queries++
	return f.records, nil
}

func (f *fakeStore) GetEmotionStats(date string) (map[string]int, error) {
	return f.stats, nil
}

func TestSummarizeRounding(t *testing.T) {
	records := []datastore.Observation{
		valid(1, "happy", 0.7),
		valid(2, "tired", 0.4),
		valid(3, "calm", 0.9),
		{PrimaryEmotion: "sad", PrimaryConfidence: 1, MappedEmotion: "worried", HasFace: false},
	}

	summary := Summarize(records)
	assert.Equal(t, 4, summary.TotalRecords)
	assert.Equal(t, 3, summary.ValidRecords)
	assert.InDelta(t, summary.EmotionIndex, round2(summary.EmotionIndex), 1e-12)
	assert.InDelta(t, summary.StressLevel, round2(summary.StressLevel), 1e-12)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.InDelta(t, 5.0, summary.EmotionIndex, 1e-9)
	assert.InDelta(t, 50.0, summary.StressLevel, 1e-9)
	assert.Zero(t, summary.TotalRecords)
	assert.Zero(t, summary.ValidRecords)
}

func TestAnalyzerCachesWithinTTL(t *testing.T) {
	store := &fakeStore{records: []datastore.Observation{valid(1, "happy", 0.9)}}
	analyzer := NewAnalyzer(store, time.Minute)

	first, err := analyzer.TodaySummary()
	require.NoError(t, err)
	second, err := analyzer.TodaySummary()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.queries)
}

func TestAnalyzerZeroTTLDisablesCache(t *testing.T) {
	store := &fakeStore{records: []datastore.Observation{valid(1, "happy", 0.9)}}
	analyzer := NewAnalyzer(store, 0)

	_, err := analyzer.TodaySummary()
	require.NoError(t, err)
	_, err = analyzer.TodaySummary()
	require.NoError(t, err)

	assert.Equal(t, 2, store.queries)
}

func TestAnalyzerTimelineAndFocus(t *testing.T) {
	records := []datastore.Observation{
		obsAtClock("2026-08-30 09:05:00", "happy"),
		obsAtClock("2026-08-30 09:40:00", "calm"),
	}
	records[0].Timestamp = 1000
	records[1].Timestamp = 1030
	store := &fakeStore{records: records}
	analyzer := NewAnalyzer(store, time.Minute)

	timeline, err := analyzer.TodayTimeline()
	require.NoError(t, err)
	assert.Len(t, timeline, 2)

	focus, err := analyzer.TodayFocus()
	require.NoError(t, err)
	assert.True(t, focus.IsCurrentlyFocusing)
	assert.InDelta(t, 0.5, focus.TotalFocusTime, 1e-9)
}

func TestAnalyzerEmotionStatsPassthrough(t *testing.T) {
	store := &fakeStore{stats: map[string]int{"happy": 3, "calm": 1}}
	analyzer := NewAnalyzer(store, time.Minute)

	stats, err := analyzer.EmotionStats("2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"happy": 3, "calm": 1}, stats)
}
