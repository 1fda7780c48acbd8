package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/mtuomin/moodwatch-go/internal/datastore"
)

// TimelinePoint is one 30-minute bucket of the day's emotion timeline.
type TimelinePoint struct {
	Time    string  `json:"time"`    // bucket label, e.g. "8:30"
	Value   float64 `json:"value"`   // averaged emotion value in [0,1]
	Emoji   string  `json:"emoji"`   // decorative glyph for the category
	Emotion string  `json:"emotion"` // bucket category label
}

// classifyBucket maps an averaged raw 0-10 score onto a category and its
// glyph. Thresholds are inclusive lower bounds, checked highest first.
func classifyBucket(avgScore float64) (emoji, emotion string) {
	switch {
	case avgScore >= 8.0:
		return "😊", "happy"
	case avgScore >= 6.0:
		return "😌", "calm"
	case avgScore >= 4.0:
		return "😴", "tired"
	default:
		return "😟", "worried"
	}
}

type bucketKey struct {
	hour   int
	minute int // 0 or 30
}

// Timeline buckets a day's observations into 30-minute intervals and
// classifies each bucket by its averaged mapped-emotion score. Invalid
// records and records with unparsable datetimes are skipped. Buckets with
// no records do not appear. The result is ordered ascending by time of day;
// empty input yields an empty (nil) slice.
func Timeline(records []datastore.Observation) []TimelinePoint {
	buckets := make(map[bucketKey][]float64)

	for i := range records {
		if !records[i].IsValid() {
			continue
		}

		dt, err := time.Parse(datastore.DatetimeLayout, records[i].Datetime)
		if err != nil {
			// malformed datetime, the record simply does not count
			continue
		}

		key := bucketKey{hour: dt.Hour()}
		if dt.Minute() >= 30 {
			key.minute = 30
		}
		buckets[key] = append(buckets[key], emotionToScore(records[i].MappedEmotion))
	}

	if len(buckets) == 0 {
		return nil
	}

	keys := make([]bucketKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].hour != keys[j].hour {
			return keys[i].hour < keys[j].hour
		}
		return keys[i].minute < keys[j].minute
	})

	timeline := make([]TimelinePoint, 0, len(keys))
	for _, key := range keys {
		scores := buckets[key]
		var sum float64
		for _, s := range scores {
			sum += s
		}
		avgScore := sum / float64(len(scores))
		emoji, emotion := classifyBucket(avgScore)

		timeline = append(timeline, TimelinePoint{
			Time:    fmt.Sprintf("%d:%02d", key.hour, key.minute),
			Value:   round2(avgScore / 10.0),
			Emoji:   emoji,
			Emotion: emotion,
		})
	}

	return timeline
}
