package observation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mtuomin/moodwatch-go/internal/datastore"
)

var parseTime = time.Date(2026, 8, 30, 14, 42, 10, 0, time.Local)

func TestParseFullPayload(t *testing.T) {
	raw := `{"emotions":[{"emotion":"happy","confidence":0.92},{"emotion":"calm","confidence":71}],"work_minutes":12.5,"is_away":false,"has_face":true}`

	obs, err := Parse(raw, parseTime)
	require.NoError(t, err)

	assert.Equal(t, parseTime.Unix(), obs.Timestamp)
	assert.Equal(t, "2026-08-30 14:42:10", obs.Datetime)
	assert.Equal(t, "happy", obs.PrimaryEmotion)
	assert.InDelta(t, 0.92, obs.PrimaryConfidence, 1e-9)
	require.NotNil(t, obs.SecondaryEmotion)
	assert.Equal(t, "calm", *obs.SecondaryEmotion)
	require.NotNil(t, obs.SecondaryConfidence)
	assert.InDelta(t, 0.71, *obs.SecondaryConfidence, 1e-9)
	assert.Equal(t, "happy", obs.MappedEmotion)
	assert.InDelta(t, 12.5, obs.WorkMinutes, 1e-9)
	assert.False(t, obs.IsAway)
	assert.True(t, obs.HasFace)
}

func TestParseSingleChannel(t *testing.T) {
	raw := `{"emotions":[{"emotion":"tired","confidence":0.4}],"has_face":true}`

	obs, err := Parse(raw, parseTime)
	require.NoError(t, err)

	assert.Equal(t, "tired", obs.PrimaryEmotion)
	assert.Nil(t, obs.SecondaryEmotion)
	assert.Nil(t, obs.SecondaryConfidence)
	assert.Zero(t, obs.WorkMinutes)
	assert.False(t, obs.IsAway)
}

func TestConfidenceNormalization(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"percentage scale", 85, 0.85},
		{"fraction scale", 0.85, 0.85},
		{"zero", 0, 0},
		{"exactly one", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, normalizeConfidence(tt.in), 1e-9)
		})
	}
}

func TestParseDefaultsForMissingFields(t *testing.T) {
	raw := `{"emotions":[{}]}`

	obs, err := Parse(raw, parseTime)
	require.NoError(t, err)

	assert.Equal(t, "calm", obs.PrimaryEmotion)
	assert.Zero(t, obs.PrimaryConfidence)
	assert.Equal(t, "calm", obs.MappedEmotion)
	assert.False(t, obs.IsAway)
	assert.False(t, obs.HasFace)
	assert.Zero(t, obs.WorkMinutes)
}

func TestParseRejectsMalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "CAMERA_ERROR: device busy"},
		{"empty line", ""},
		{"no channels key", `{"has_face":true}`},
		{"empty channels", `{"emotions":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, err := Parse(tt.raw, parseTime)
			assert.Error(t, err)
			assert.Nil(t, obs)
		})
	}
}

func setupTestStore(t *testing.T) *datastore.DataStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&datastore.Observation{}))
	return &datastore.DataStore{DB: db}
}

func TestIngestStoresRecord(t *testing.T) {
	ds := setupTestStore(t)

	raw := `{"emotions":[{"emotion":"calm","confidence":88}],"has_face":true}`
	obs, err := Ingest(raw, parseTime, ds)
	require.NoError(t, err)
	require.NotNil(t, obs)
	assert.NotZero(t, obs.ID)

	got, err := ds.GetRecentObservations(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.88, got[0].PrimaryConfidence, 1e-9)
}

func TestIngestSkipsUnparsableTick(t *testing.T) {
	ds := setupTestStore(t)

	obs, err := Ingest("not json at all", parseTime, ds)
	assert.NoError(t, err)
	assert.Nil(t, obs)

	got, err := ds.GetRecentObservations(10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
