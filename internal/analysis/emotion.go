package analysis

import (
	"math"

	"github.com/mtuomin/moodwatch-go/internal/datastore"
)

// decayRate controls the exponential recency weighting across the valid
// observation sequence.
const decayRate = 0.1

// fusedScore blends the two detector channels of one observation into a
// single 0-10 score plus the confidence used for sequence weighting.
// Channels are averaged by confidence; when neither channel carries
// confidence the score falls back to neutral. Agreement between channels
// earns a small bonus.
func fusedScore(o *datastore.Observation) (score, confidence float64) {
	primaryScore := emotionToScore(o.PrimaryEmotion)

	secondaryScore := 5.0
	secondaryConf := 0.0
	if o.SecondaryEmotion != nil {
		secondaryScore = emotionToScore(*o.SecondaryEmotion)
	}
	if o.SecondaryConfidence != nil {
		secondaryConf = *o.SecondaryConfidence
	}

	totalConf := o.PrimaryConfidence + secondaryConf
	base := 5.0
	if totalConf > 0 {
		base = (primaryScore*o.PrimaryConfidence + secondaryScore*secondaryConf) / totalConf
	}

	bonus := 0.0
	if o.SecondaryEmotion != nil && *o.SecondaryEmotion == o.PrimaryEmotion {
		bonus = 0.5
	}

	score = math.Min(base+bonus, 10.0)
	confidence = math.Max(o.PrimaryConfidence, secondaryConf)
	return score, confidence
}

// EmotionIndex computes the composite 1-10 emotion index over a sequence of
// observations. Invalid records (no face, or away) are filtered first; the
// remaining records are processed in the supplied order, so callers must
// pass them in chronological order for the recency decay and final-score
// terms to mean what they should. Empty or all-invalid input yields the
// neutral 5.0. The result is unrounded; rounding happens at the reporting
// boundary.
func EmotionIndex(records []datastore.Observation) float64 {
	type scored struct {
		score      float64
		confidence float64
	}

	var fused []scored
	for i := range records {
		if !records[i].IsValid() {
			continue
		}
		s, c := fusedScore(&records[i])
		fused = append(fused, scored{score: s, confidence: c})
	}

	if len(fused) == 0 {
		return 5.0
	}

	n := len(fused)
	var totalWeightedScore, totalWeight, peakScore, finalScore float64

	for i, fs := range fused {
		// exponential recency decay, the most recent record carries
		// full weight
		timeWeight := math.Exp(-decayRate * float64(n-i-1))
		combinedWeight := timeWeight * fs.confidence

		totalWeightedScore += fs.score * combinedWeight
		totalWeight += combinedWeight

		if fs.score > peakScore {
			peakScore = fs.score
		}
		if i == n-1 {
			finalScore = fs.score
		}
	}

	weightedAvg := 5.0
	if totalWeight > 0 {
		weightedAvg = totalWeightedScore / totalWeight
	}

	// peak-end weighting over the decayed average
	index := 0.6*weightedAvg + 0.2*peakScore + 0.2*finalScore

	return clamp(index, 1.0, 10.0)
}
