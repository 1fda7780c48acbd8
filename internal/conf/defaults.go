// conf/defaults.go default values for settings
package conf

import "github.com/spf13/viper"

// setDefaultConfig sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "MoodWatch-Go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/moodwatch.log")

	viper.SetDefault("detector.command", "python3")
	viper.SetDefault("detector.args", []string{"emotion_service.py"})
	viper.SetDefault("detector.interval", 60)

	viper.SetDefault("database.path", "emotions.db")

	viper.SetDefault("api.enabled", true)
	viper.SetDefault("api.host", "127.0.0.1")
	viper.SetDefault("api.port", 8414)

	viper.SetDefault("analysis.cachettl", 30)
}
