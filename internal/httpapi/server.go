// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httpapi serves the duplicate report over HTTP for UI clients.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/georgegian2018/research-library-engine/internal/dedup"
	"github.com/georgegian2018/research-library-engine/internal/library"
	"github.com/georgegian2018/research-library-engine/pkg/types"
)

// RecordSource supplies the record snapshot a report is built from.
type RecordSource interface {
	ListRecords(ctx context.Context, opts library.ListOptions) ([]types.Record, error)
}

// Options configures the listener.
type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server exposes GET /dedup/report and GET /health.
type Server struct {
	source RecordSource
	dedup  types.DedupConfig
	logger zerolog.Logger
	opts   Options
}

// NewServer returns a server reading records from source. cfg supplies
// the defaults for every report parameter a request leaves out.
func NewServer(source RecordSource, cfg types.DedupConfig, logger zerolog.Logger, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	if opts.Port <= 0 {
		opts.Port = 8085
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Minute
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	opts.Host = host

	return &Server{
		source: source,
		dedup:  cfg,
		logger: logger,
		opts:   opts,
	}
}

// Handler builds the echo instance with middleware and routes.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       3600,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Info()
			if v.Error != nil {
				event = s.logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	e.GET("/health", s.handleHealth)
	e.GET("/dedup/report", s.handleReport)
	return e
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.source == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.Handler()
	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("report server started")
	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("report server stopped")
	return nil
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if v, ok := he.Message.(string); ok && strings.TrimSpace(v) != "" {
			message = v
		} else if text := http.StatusText(status); text != "" {
			message = text
		}
	}

	if status >= 500 {
		_ = internalError(c, "Internal server error")
		return
	}
	_ = fail(c, status, message, nil)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReport(c echo.Context) error {
	cfg := s.dedup
	fieldErrors := map[string]string{}

	if raw := strings.TrimSpace(c.QueryParam("threshold")); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		switch {
		case err != nil:
			fieldErrors["threshold"] = "must be a number"
		case dedup.ValidateThreshold(threshold) != nil:
			fieldErrors["threshold"] = "must be between 0.0 and 1.0"
		default:
			cfg.Threshold = threshold
		}
	}

	groups, err := parseBool(c.QueryParam("groups"), false)
	if err != nil {
		fieldErrors["groups"] = err.Error()
	}
	excludeDOI, err := parseBool(c.QueryParam("exclude_doi"), cfg.ExcludeDOIMatches)
	if err != nil {
		fieldErrors["exclude_doi"] = err.Error()
	}
	cfg.ExcludeDOIMatches = excludeDOI
	runMetadata, err := parseBool(c.QueryParam("run_metadata"), false)
	if err != nil {
		fieldErrors["run_metadata"] = err.Error()
	}

	if len(fieldErrors) > 0 {
		return failValidation(c, fieldErrors)
	}

	ctx := c.Request().Context()
	project := strings.TrimSpace(c.QueryParam("project"))
	records, err := s.source.ListRecords(ctx, library.ListOptions{Project: project})
	if errors.Is(err, library.ErrProjectNotFound) {
		return failNotFound(c, fmt.Sprintf("project %q not found", project))
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("list records failed")
		return internalError(c, "Failed to load records")
	}

	report, err := dedup.Run(ctx, records, dedup.Options{
		DedupConfig: cfg,
		Groups:      groups,
		RunMetadata: runMetadata,
		Logger:      s.logger,
	})
	if errors.Is(err, dedup.ErrInvalidArgument) {
		return failValidation(c, map[string]string{"threshold": err.Error()})
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("build report failed")
		return internalError(c, "Failed to build report")
	}

	return success(c, report)
}

func parseBool(raw string, defaultValue bool) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("must be true or false")
	}
	return v, nil
}
