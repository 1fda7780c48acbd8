package analysis

import (
	"math"

	"github.com/mtuomin/moodwatch-go/internal/datastore"
)

// StressLevel computes the 0-100 stress score over a sequence of
// observations from three additive components: low mood, volatility and
// negativity share. Invalid records are filtered first; empty or
// all-invalid input yields the neutral-moderate 50.0. The result is
// unrounded.
func StressLevel(records []datastore.Observation) float64 {
	var weightedScores []float64
	for i := range records {
		if !records[i].IsValid() {
			continue
		}
		o := &records[i]

		confidence := o.PrimaryConfidence
		if o.SecondaryConfidence != nil && *o.SecondaryConfidence > confidence {
			confidence = *o.SecondaryConfidence
		}
		weightedScores = append(weightedScores, emotionToScore(o.MappedEmotion)*confidence)
	}

	if len(weightedScores) == 0 {
		return 50.0
	}

	var sum float64
	for _, s := range weightedScores {
		sum += s
	}
	mean := sum / float64(len(weightedScores))

	// population standard deviation
	var variance float64
	for _, s := range weightedScores {
		diff := s - mean
		variance += diff * diff
	}
	variance /= float64(len(weightedScores))
	stddev := math.Sqrt(variance)

	negativeCount := 0
	for _, s := range weightedScores {
		if s < 5.0 {
			negativeCount++
		}
	}
	negativeRatio := float64(negativeCount) / float64(len(weightedScores))

	lowMood := clamp((10.0-mean)/9.0*40.0, 0.0, 40.0)
	volatility := clamp(stddev/3.0*30.0, 0.0, 30.0)
	negativity := negativeRatio * 30.0

	return clamp(lowMood+volatility+negativity, 0.0, 100.0)
}
