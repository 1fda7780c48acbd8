// Package api exposes the reporting boundary over a local HTTP server:
// recent observations, today's analysis, the emotion timeline, focus
// statistics, detector status and Prometheus metrics.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mtuomin/moodwatch-go/internal/analysis"
	"github.com/mtuomin/moodwatch-go/internal/conf"
	"github.com/mtuomin/moodwatch-go/internal/datastore"
	"github.com/mtuomin/moodwatch-go/internal/detector"
	"github.com/mtuomin/moodwatch-go/internal/logging"
	"github.com/mtuomin/moodwatch-go/internal/observability"
)

const defaultRecentLimit = 20

// StatusProvider reports the detector session state.
type StatusProvider interface {
	Status() detector.Status
}

// Server is the local HTTP API over the record store and the analysis
// engines.
type Server struct {
	Echo     *echo.Echo
	addr     string
	store    datastore.Interface
	analyzer *analysis.Analyzer
	detector StatusProvider
	log      *slog.Logger
}

// New wires the routes. The server does not listen until Start.
func New(settings *conf.Settings, store datastore.Interface, analyzer *analysis.Analyzer, status StatusProvider, metrics *observability.Metrics) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{
		Echo:     e,
		addr:     fmt.Sprintf("%s:%d", settings.API.Host, settings.API.Port),
		store:    store,
		analyzer: analyzer,
		detector: status,
		log:      logging.ForService("api"),
	}

	v1 := e.Group("/api/v1")
	v1.GET("/observations/recent", s.getRecentObservations)
	v1.GET("/observations/range", s.getObservationsByRange)
	v1.GET("/analysis/today", s.getTodayAnalysis)
	v1.GET("/timeline/today", s.getTodayTimeline)
	v1.GET("/focus/today", s.getTodayFocus)
	v1.GET("/stats", s.getEmotionStats)
	v1.GET("/detector/status", s.getDetectorStatus)

	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	}

	return s
}

// Start listens on the configured local address and blocks until shutdown.
func (s *Server) Start() error {
	s.log.Info("api server starting", "addr", s.addr)
	if err := s.Echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

func (s *Server) getRecentObservations(c echo.Context) error {
	limit := defaultRecentLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}

	observations, err := s.store.GetRecentObservations(limit)
	if err != nil {
		s.log.Error("failed to query recent observations", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to query observations")
	}
	return c.JSON(http.StatusOK, observations)
}

func (s *Server) getObservationsByRange(c echo.Context) error {
	start := c.QueryParam("start")
	end := c.QueryParam("end")
	if start == "" || end == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "start and end are required")
	}
	for _, bound := range []string{start, end} {
		if !validRangeBound(bound) {
			return echo.NewHTTPError(http.StatusBadRequest,
				"bounds must be formatted YYYY-MM-DD or YYYY-MM-DD HH:MM:SS")
		}
	}

	observations, err := s.store.GetObservationsByDateRange(start, end)
	if err != nil {
		s.log.Error("failed to query observations by range", "start", start, "end", end, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to query observations")
	}
	return c.JSON(http.StatusOK, observations)
}

// validRangeBound accepts a date or a full datetime in the stored format.
func validRangeBound(bound string) bool {
	if _, err := time.Parse("2006-01-02", bound); err == nil {
		return true
	}
	_, err := time.Parse(datastore.DatetimeLayout, bound)
	return err == nil
}

func (s *Server) getTodayAnalysis(c echo.Context) error {
	summary, err := s.analyzer.TodaySummary()
	if err != nil {
		s.log.Error("failed to compute today's analysis", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute analysis")
	}
	return c.JSON(http.StatusOK, summary)
}

func (s *Server) getTodayTimeline(c echo.Context) error {
	timeline, err := s.analyzer.TodayTimeline()
	if err != nil {
		s.log.Error("failed to compute today's timeline", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute timeline")
	}
	if timeline == nil {
		timeline = []analysis.TimelinePoint{}
	}
	return c.JSON(http.StatusOK, timeline)
}

func (s *Server) getTodayFocus(c echo.Context) error {
	focus, err := s.analyzer.TodayFocus()
	if err != nil {
		s.log.Error("failed to compute today's focus analysis", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute focus analysis")
	}
	return c.JSON(http.StatusOK, focus)
}

func (s *Server) getEmotionStats(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
	}

	stats, err := s.analyzer.EmotionStats(date)
	if err != nil {
		s.log.Error("failed to query emotion stats", "date", date, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to query stats")
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) getDetectorStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.detector.Status())
}
