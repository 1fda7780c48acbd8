package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	configcmd "github.com/mtuomin/moodwatch-go/cmd/config"
	"github.com/mtuomin/moodwatch-go/cmd/monitor"
	"github.com/mtuomin/moodwatch-go/cmd/report"
	"github.com/mtuomin/moodwatch-go/internal/conf"
	"github.com/mtuomin/moodwatch-go/internal/logging"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "moodwatch",
		Short: "MoodWatch-Go wellbeing monitor",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// flags are parsed after main initializes logging, so the
			// debug flag takes effect here
			if settings.Debug {
				logging.SetLevel(slog.LevelDebug)
			}
		},
	}

	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		monitor.Command(settings),
		report.Command(settings),
		configcmd.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Database.Path, "database", viper.GetString("database.path"), "Path to the SQLite database file")
	rootCmd.PersistentFlags().IntVar(&settings.Detector.Interval, "interval", viper.GetInt("detector.interval"), "Sampling interval in seconds")

	_ = viper.BindPFlags(rootCmd.PersistentFlags())
}
