package conf

import (
	"github.com/mtuomin/moodwatch-go/internal/errors"
)

// ValidateSettings checks the settings for values that would prevent the
// application from running.
func ValidateSettings(settings *Settings) error {
	if settings.Detector.Command == "" {
		return errors.Newf("detector.command must not be empty").
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if settings.Detector.Interval <= 0 {
		return errors.Newf("detector.interval must be positive, got %d", settings.Detector.Interval).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("interval", settings.Detector.Interval).
			Build()
	}

	if settings.Database.Path == "" {
		return errors.Newf("database.path must not be empty").
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if settings.API.Enabled {
		if settings.API.Port <= 0 || settings.API.Port > 65535 {
			return errors.Newf("api.port out of range: %d", settings.API.Port).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Context("port", settings.API.Port).
				Build()
		}
	}

	if settings.Analysis.CacheTTL < 0 {
		return errors.Newf("analysis.cachettl must not be negative, got %d", settings.Analysis.CacheTTL).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	return nil
}
