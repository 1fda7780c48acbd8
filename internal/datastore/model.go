// model.go this code defines the data model for the application
package datastore

// DatetimeLayout is the stored local-time format of Observation.Datetime.
const DatetimeLayout = "2006-01-02 15:04:05"

// Mapped emotion labels persisted for grouping and statistics. The store
// rejects anything outside this set.
const (
	EmotionHappy   = "happy"
	EmotionCalm    = "calm"
	EmotionWorried = "worried"
	EmotionTired   = "tired"
)

// Observation represents a single sampling tick from the emotion detector.
// Records are immutable once stored: they are created by ingest and never
// updated or deleted by this application.
type Observation struct {
	ID                  uint     `gorm:"primaryKey" json:"id"`
	Timestamp           int64    `gorm:"index:idx_observations_timestamp;not null" json:"timestamp"`
	Datetime            string   `gorm:"index:idx_observations_datetime;not null" json:"datetime"` // local time, DatetimeLayout
	PrimaryEmotion      string   `gorm:"not null" json:"primary_emotion"`
	PrimaryConfidence   float64  `gorm:"not null" json:"primary_confidence"` // [0,1]
	SecondaryEmotion    *string  `json:"secondary_emotion,omitempty"`
	SecondaryConfidence *float64 `json:"secondary_confidence,omitempty"` // [0,1], present iff SecondaryEmotion is
	MappedEmotion       string   `gorm:"index:idx_observations_mapped;not null" json:"mapped_emotion"`
	WorkMinutes         float64  `gorm:"not null" json:"work_minutes"`
	IsAway              bool     `gorm:"not null" json:"is_away"`
	HasFace             bool     `gorm:"not null" json:"has_face"`
}

// IsValid reports whether the observation counts for emotion, stress and
// focus computation: a face was detected and the subject was present.
func (o *Observation) IsValid() bool {
	return o.HasFace && !o.IsAway
}

// validMappedEmotions mirrors the CHECK constraint of the original schema.
var validMappedEmotions = map[string]bool{
	EmotionHappy:   true,
	EmotionCalm:    true,
	EmotionWorried: true,
	EmotionTired:   true,
}
