// Package observation parses raw detector responses into observation
// records ready for storage.
package observation

import (
	"log/slog"
	"time"

	"github.com/antonholmquist/jason"

	"github.com/mtuomin/moodwatch-go/internal/datastore"
	"github.com/mtuomin/moodwatch-go/internal/errors"
	"github.com/mtuomin/moodwatch-go/internal/logging"
)

// Fallback values for missing or malformed payload fields.
const defaultEmotion = "calm"

var log *slog.Logger

func getLogger() *slog.Logger {
	if log == nil {
		log = logging.ForService("observation")
	}
	return log
}

// channel is one detector channel's emotion and normalized confidence.
type channel struct {
	emotion    string
	confidence float64
}

// normalizeConfidence maps a detector confidence onto [0,1]. The detector
// reports either a fraction or a percentage; any value above 1 is taken as a
// percentage. A true percentage of exactly 1 (i.e. 1%) is indistinguishable
// from a fraction and passes through unchanged.
func normalizeConfidence(c float64) float64 {
	if c > 1.0 {
		return c / 100.0
	}
	return c
}

// parseChannel extracts one channel from the emotions array, applying
// defaults for missing fields.
func parseChannel(obj *jason.Object) channel {
	emotion, err := obj.GetString("emotion")
	if err != nil || emotion == "" {
		emotion = defaultEmotion
	}

	confidence, err := obj.GetFloat64("confidence")
	if err != nil {
		confidence = 0
	}

	return channel{emotion: emotion, confidence: normalizeConfidence(confidence)}
}

// Parse converts a raw detector response line into an Observation stamped
// with now. The first channel's emotion becomes both the primary and the
// mapped emotion; a second channel, when present, fills the secondary
// fields. A response that is not valid JSON, or that carries no emotion
// channels, yields a parse error — callers are expected to log it and skip
// the tick rather than fail.
func Parse(raw string, now time.Time) (*datastore.Observation, error) {
	data, err := jason.NewObjectFromBytes([]byte(raw))
	if err != nil {
		return nil, errors.New(err).
			Component("observation").
			Category(errors.CategoryParse).
			Context("raw_length", len(raw)).
			Build()
	}

	channels, err := data.GetObjectArray("emotions")
	if err != nil || len(channels) == 0 {
		return nil, errors.Newf("response carries no emotion channels").
			Component("observation").
			Category(errors.CategoryParse).
			Build()
	}

	primary := parseChannel(channels[0])

	obs := &datastore.Observation{
		Timestamp:         now.Unix(),
		Datetime:          now.Format(datastore.DatetimeLayout),
		PrimaryEmotion:    primary.emotion,
		PrimaryConfidence: primary.confidence,
		MappedEmotion:     primary.emotion,
	}

	if len(channels) > 1 {
		secondary := parseChannel(channels[1])
		obs.SecondaryEmotion = &secondary.emotion
		obs.SecondaryConfidence = &secondary.confidence
	}

	if workMinutes, err := data.GetFloat64("work_minutes"); err == nil {
		obs.WorkMinutes = workMinutes
	}
	if isAway, err := data.GetBoolean("is_away"); err == nil {
		obs.IsAway = isAway
	}
	if hasFace, err := data.GetBoolean("has_face"); err == nil {
		obs.HasFace = hasFace
	}

	return obs, nil
}

// Store is the subset of the datastore consumed by ingest.
type Store interface {
	Save(observation *datastore.Observation) error
}

// Ingest parses a raw response and stores the resulting record. Parse
// failures are logged and skipped: the tick simply produces no record.
// Storage failures are returned to the caller.
func Ingest(raw string, now time.Time, store Store) (*datastore.Observation, error) {
	obs, err := Parse(raw, now)
	if err != nil {
		getLogger().Warn("skipping unparsable detector response", "error", err)
		return nil, nil
	}

	if err := store.Save(obs); err != nil {
		return nil, err
	}
	return obs, nil
}
