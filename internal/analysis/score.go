// Package analysis computes derived wellbeing metrics from stored
// observations: the composite emotion index, the stress level, the
// 30-minute emotion timeline and focus session statistics. All engines are
// pure functions over an observation snapshot and are safe to run
// concurrently.
package analysis

import "math"

// emotionToScore maps a categorical emotion label onto the 0-10 scoring
// scale shared by all engines. Unknown labels score neutral.
func emotionToScore(emotion string) float64 {
	switch emotion {
	case "happy":
		return 10.0
	case "calm":
		return 7.0
	case "neutral":
		return 5.0
	case "worried":
		return 3.0
	case "sad":
		return 2.0
	case "angry":
		return 1.0
	case "tired":
		return 4.0
	default:
		return 5.0
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// round2 rounds to 2 decimal places, used at the reporting boundary.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds to 1 decimal place, used for focus durations.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
