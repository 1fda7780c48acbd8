// Package report implements the one-shot reporting subcommand.
package report

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mtuomin/moodwatch-go/internal/analysis"
	"github.com/mtuomin/moodwatch-go/internal/conf"
	"github.com/mtuomin/moodwatch-go/internal/datastore"
)

// Command creates the report subcommand: print today's wellbeing analysis
// as JSON and exit.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print today's wellbeing analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(settings)
		},
	}
}

type reportOutput struct {
	Date     string                   `json:"date"`
	Analysis analysis.Summary         `json:"analysis"`
	Timeline []analysis.TimelinePoint `json:"timeline"`
	Focus    analysis.FocusAnalysis   `json:"focus"`
	Stats    map[string]int           `json:"stats"`
}

func runReport(settings *conf.Settings) error {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	analyzer := analysis.NewAnalyzer(store, 0)

	summary, err := analyzer.TodaySummary()
	if err != nil {
		return err
	}
	timeline, err := analyzer.TodayTimeline()
	if err != nil {
		return err
	}
	focus, err := analyzer.TodayFocus()
	if err != nil {
		return err
	}
	date := time.Now().Format("2006-01-02")
	stats, err := analyzer.EmotionStats(date)
	if err != nil {
		return err
	}

	if timeline == nil {
		timeline = []analysis.TimelinePoint{}
	}

	out := reportOutput{
		Date:     date,
		Analysis: summary,
		Timeline: timeline,
		Focus:    focus,
		Stats:    stats,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
