package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtuomin/moodwatch-go/internal/datastore"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

// valid builds a valid observation with the given primary channel.
func valid(ts int64, emotion string, confidence float64) datastore.Observation {
	return datastore.Observation{
		Timestamp:         ts,
		Datetime:          "2026-08-30 10:00:00",
		PrimaryEmotion:    emotion,
		PrimaryConfidence: confidence,
		MappedEmotion:     emotion,
		HasFace:           true,
	}
}

func TestEmotionToScore(t *testing.T) {
	tests := []struct {
		emotion string
		want    float64
	}{
		{"happy", 10.0},
		{"calm", 7.0},
		{"neutral", 5.0},
		{"worried", 3.0},
		{"tired", 4.0},
		{"sad", 2.0},
		{"angry", 1.0},
		{"confused", 5.0},
		{"", 5.0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, emotionToScore(tt.emotion), 1e-9, "emotion %q", tt.emotion)
	}
}

func TestEmotionIndexEmpty(t *testing.T) {
	assert.InDelta(t, 5.0, EmotionIndex(nil), 1e-9)
	assert.InDelta(t, 5.0, EmotionIndex([]datastore.Observation{}), 1e-9)
}

func TestEmotionIndexAllInvalid(t *testing.T) {
	records := []datastore.Observation{
		{PrimaryEmotion: "happy", PrimaryConfidence: 0.9, MappedEmotion: "happy", HasFace: false},
		{PrimaryEmotion: "happy", PrimaryConfidence: 0.9, MappedEmotion: "happy", HasFace: true, IsAway: true},
	}
	assert.InDelta(t, 5.0, EmotionIndex(records), 1e-9)
}

func TestEmotionIndexSingleHappyRecord(t *testing.T) {
	records := []datastore.Observation{valid(1000, "happy", 0.9)}
	// one record: weighted avg, peak and final are all the fused 10.0
	assert.InDelta(t, 10.0, EmotionIndex(records), 1e-9)
}

func TestEmotionIndexSingleWorriedRecord(t *testing.T) {
	records := []datastore.Observation{valid(1000, "worried", 0.5)}
	assert.InDelta(t, 3.0, EmotionIndex(records), 1e-9)
}

func TestEmotionIndexZeroConfidenceFallsBackToNeutral(t *testing.T) {
	records := []datastore.Observation{valid(1000, "happy", 0)}
	assert.InDelta(t, 5.0, EmotionIndex(records), 1e-9)
}

func TestEmotionIndexConsistencyBonusClamped(t *testing.T) {
	obs := valid(1000, "happy", 0.8)
	obs.SecondaryEmotion = strPtr("happy")
	obs.SecondaryConfidence = f64Ptr(0.8)
	// both channels agree on happy: 10.0 + 0.5 bonus clamps back to 10
	assert.InDelta(t, 10.0, EmotionIndex([]datastore.Observation{obs}), 1e-9)
}

func TestEmotionIndexConsistencyBonusBelowCeiling(t *testing.T) {
	obs := valid(1000, "calm", 0.8)
	obs.SecondaryEmotion = strPtr("calm")
	obs.SecondaryConfidence = f64Ptr(0.8)
	// agreement on calm: fused 7.0 + 0.5 = 7.5 across all three terms
	assert.InDelta(t, 7.5, EmotionIndex([]datastore.Observation{obs}), 1e-9)
}

func TestEmotionIndexChannelFusion(t *testing.T) {
	obs := valid(1000, "happy", 0.6)
	obs.SecondaryEmotion = strPtr("worried")
	obs.SecondaryConfidence = f64Ptr(0.4)
	// fused = (10*0.6 + 3*0.4) / 1.0 = 7.2, no agreement bonus
	assert.InDelta(t, 7.2, EmotionIndex([]datastore.Observation{obs}), 1e-9)
}

func TestEmotionIndexRange(t *testing.T) {
	sequences := [][]datastore.Observation{
		{valid(1, "angry", 1.0), valid(2, "angry", 1.0), valid(3, "sad", 1.0)},
		{valid(1, "happy", 1.0), valid(2, "happy", 1.0)},
		{valid(1, "angry", 0.01), valid(2, "happy", 1.0), valid(3, "tired", 0.3)},
		{valid(1, "worried", 0.9), {HasFace: false}, valid(3, "calm", 0.2)},
	}

	for _, records := range sequences {
		index := EmotionIndex(records)
		assert.GreaterOrEqual(t, index, 1.0)
		assert.LessOrEqual(t, index, 10.0)
	}
}

func TestEmotionIndexRecencyWeighting(t *testing.T) {
	angryThenHappy := []datastore.Observation{
		valid(1, "angry", 0.9), valid(2, "angry", 0.9), valid(3, "happy", 0.9),
	}
	happyThenAngry := []datastore.Observation{
		valid(1, "happy", 0.9), valid(2, "happy", 0.9), valid(3, "angry", 0.9),
	}

	// the final-score term and recency decay favor the sequence ending on
	// a high note
	assert.Greater(t, EmotionIndex(angryThenHappy), EmotionIndex(happyThenAngry))
}

func TestEmotionIndexDeterministic(t *testing.T) {
	records := []datastore.Observation{
		valid(1, "happy", 0.7), valid(2, "tired", 0.4), valid(3, "calm", 0.9),
	}
	first := EmotionIndex(records)
	for i := 0; i < 10; i++ {
		assert.InDelta(t, first, EmotionIndex(records), 1e-12)
	}
}

func TestEmotionIndexInvalidRecordsDoNotAffectResult(t *testing.T) {
	core := []datastore.Observation{valid(1, "happy", 0.7), valid(2, "calm", 0.9)}
	padded := []datastore.Observation{
		{PrimaryEmotion: "angry", PrimaryConfidence: 1, MappedEmotion: "worried", HasFace: false},
		core[0],
		{PrimaryEmotion: "sad", PrimaryConfidence: 1, MappedEmotion: "tired", HasFace: true, IsAway: true},
		core[1],
	}

	assert.InDelta(t, EmotionIndex(core), EmotionIndex(padded), 1e-12)
}
