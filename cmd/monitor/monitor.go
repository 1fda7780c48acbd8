// Package monitor implements the realtime monitoring subcommand.
package monitor

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mtuomin/moodwatch-go/internal/analysis"
	"github.com/mtuomin/moodwatch-go/internal/api"
	"github.com/mtuomin/moodwatch-go/internal/conf"
	"github.com/mtuomin/moodwatch-go/internal/datastore"
	"github.com/mtuomin/moodwatch-go/internal/detector"
	"github.com/mtuomin/moodwatch-go/internal/monitor"
	"github.com/mtuomin/moodwatch-go/internal/observability"
)

// Command creates the monitor subcommand: run the detector and sample until
// interrupted.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Run the emotion detector and record observations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(settings)
		},
	}
}

func runMonitor(settings *conf.Settings) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close datastore", "error", err)
		}
	}()

	supervisor := detector.NewSupervisor(settings)
	if err := supervisor.Start(); err != nil {
		return err
	}
	defer func() {
		_ = supervisor.Stop()
	}()

	metrics := observability.NewMetrics()
	loop := monitor.New(supervisor, store, metrics,
		time.Duration(settings.Detector.Interval)*time.Second)

	if settings.API.Enabled {
		analyzer := analysis.NewAnalyzer(store,
			time.Duration(settings.Analysis.CacheTTL)*time.Second)
		server := api.New(settings, store, analyzer, supervisor, metrics)

		go func() {
			if err := server.Start(); err != nil {
				slog.Error("api server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				slog.Error("api server shutdown failed", "error", err)
			}
		}()
	}

	return loop.Run(ctx)
}
