// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/mtuomin/moodwatch-go/internal/errors"
	"github.com/mtuomin/moodwatch-go/internal/logging"
)

// Interface defines the observation store operations consumed by the rest of
// the application.
type Interface interface {
	Open() error
	Close() error
	Save(observation *Observation) error
	GetRecentObservations(limit int) ([]Observation, error)
	GetObservationsByDateRange(start, end string) ([]Observation, error)
	GetTodayObservations() ([]Observation, error)
	GetEmotionStats(date string) (map[string]int, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB  *gorm.DB
	log *slog.Logger
}

func (ds *DataStore) logger() *slog.Logger {
	if ds.log == nil {
		ds.log = logging.ForService("datastore")
	}
	return ds.log
}

// validateObservation mirrors the CHECK constraints of the original schema:
// mapped emotion from the closed set, confidences in [0,1], non-negative
// work minutes.
func validateObservation(o *Observation) error {
	if !validMappedEmotions[o.MappedEmotion] {
		return errors.Newf("invalid mapped emotion: %q", o.MappedEmotion).
			Component("datastore").
			Category(errors.CategoryValidation).
			Context("mapped_emotion", o.MappedEmotion).
			Build()
	}
	if o.PrimaryConfidence < 0 || o.PrimaryConfidence > 1 {
		return errors.Newf("primary confidence out of range: %f", o.PrimaryConfidence).
			Component("datastore").
			Category(errors.CategoryValidation).
			Build()
	}
	if (o.SecondaryEmotion == nil) != (o.SecondaryConfidence == nil) {
		return errors.Newf("secondary emotion and confidence must be present together").
			Component("datastore").
			Category(errors.CategoryValidation).
			Build()
	}
	if o.SecondaryConfidence != nil && (*o.SecondaryConfidence < 0 || *o.SecondaryConfidence > 1) {
		return errors.Newf("secondary confidence out of range: %f", *o.SecondaryConfidence).
			Component("datastore").
			Category(errors.CategoryValidation).
			Build()
	}
	if o.WorkMinutes < 0 {
		return errors.Newf("work minutes must not be negative: %f", o.WorkMinutes).
			Component("datastore").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

// Save inserts a new observation record. The observation's ID is populated
// on success.
func (ds *DataStore) Save(observation *Observation) error {
	if ds.DB == nil {
		return errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}

	if err := validateObservation(observation); err != nil {
		return err
	}

	if err := ds.DB.Create(observation).Error; err != nil {
		return errors.New(fmt.Errorf("saving observation: %w", err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("timestamp", observation.Timestamp).
			Build()
	}

	ds.logger().Debug("observation saved",
		"id", observation.ID,
		"mapped_emotion", observation.MappedEmotion,
		"has_face", observation.HasFace)
	return nil
}

// GetRecentObservations retrieves the most recent observations, newest
// first.
func (ds *DataStore) GetRecentObservations(limit int) ([]Observation, error) {
	var observations []Observation
	if result := ds.DB.Order("timestamp DESC").Limit(limit).Find(&observations); result.Error != nil {
		return nil, errors.New(fmt.Errorf("getting recent observations: %w", result.Error)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return observations, nil
}

// GetObservationsByDateRange retrieves observations whose datetime falls
// between start and end, ascending by timestamp. Bounds use the stored
// datetime string format, so date-only bounds like "2026-08-30" compare as
// day boundaries.
func (ds *DataStore) GetObservationsByDateRange(start, end string) ([]Observation, error) {
	var observations []Observation
	err := ds.DB.Where("datetime BETWEEN ? AND ?", start, end).
		Order("timestamp ASC").
		Find(&observations).Error
	if err != nil {
		return nil, errors.New(fmt.Errorf("getting observations for range %s..%s: %w", start, end, err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return observations, nil
}

// GetTodayObservations retrieves the current local calendar day's
// observations, ascending by timestamp.
func (ds *DataStore) GetTodayObservations() ([]Observation, error) {
	var observations []Observation
	err := ds.DB.Where("date(datetime) = date('now', 'localtime')").
		Order("timestamp ASC").
		Find(&observations).Error
	if err != nil {
		return nil, errors.New(fmt.Errorf("getting today's observations: %w", err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return observations, nil
}

// GetEmotionStats returns per-mapped-emotion record counts for the given
// date (format "2006-01-02").
func (ds *DataStore) GetEmotionStats(date string) (map[string]int, error) {
	var rows []struct {
		MappedEmotion string
		Count         int
	}

	err := ds.DB.Model(&Observation{}).
		Select("mapped_emotion, COUNT(*) as count").
		Where("date(datetime) = date(?)", date).
		Group("mapped_emotion").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.New(fmt.Errorf("getting emotion stats for %s: %w", date, err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("date", date).
			Build()
	}

	stats := make(map[string]int, len(rows))
	for _, row := range rows {
		stats[row.MappedEmotion] = row.Count
	}
	return stats, nil
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Observation{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		logging.ForService("datastore").Debug("database connection initialized",
			"type", dbType, "path", connectionInfo)
	}

	return nil
}
