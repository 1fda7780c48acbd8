// Package conf handles the application configuration: defaults, config file
// discovery, unmarshalling into the Settings struct and validation.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// MainSettings contains application-wide settings.
type MainSettings struct {
	Name string // instance name, used in logs
	Log  struct {
		Enabled bool   // true to write a rotating application log file
		Path    string // application log file path
	}
}

// DetectorSettings configures the external emotion detector process.
type DetectorSettings struct {
	Command  string   // executable to launch, e.g. "python3"
	Args     []string // arguments, e.g. the detector script path
	Interval int      // sampling interval in seconds
}

// DatabaseSettings configures the observation store.
type DatabaseSettings struct {
	Path string // SQLite database file path
}

// APISettings configures the local HTTP API.
type APISettings struct {
	Enabled bool
	Host    string // bind host, local by default
	Port    int
}

// AnalysisSettings configures the reporting boundary.
type AnalysisSettings struct {
	CacheTTL int // seconds to cache computed "today" analysis results
}

// Settings is the root configuration structure.
type Settings struct {
	Debug    bool // true to enable debug logging
	Main     MainSettings
	Detector DetectorSettings
	Database DatabaseSettings
	API      APISettings
	Analysis AnalysisSettings
}

// Load reads the configuration file (if any), applies defaults and returns
// validated settings.
func Load() (*Settings, error) {
	setDefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	for _, path := range configPaths() {
		viper.AddConfigPath(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// missing config file is fine, defaults apply
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// configPaths returns the directories searched for a config file, in order
// of precedence.
func configPaths() []string {
	paths := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "moodwatch"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "moodwatch"))
	}
	return paths
}
