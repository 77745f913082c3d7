package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/serenity-chat/server/internal/agent/graph"
	"github.com/serenity-chat/server/internal/agent/graph/conversations"
	"github.com/serenity-chat/server/internal/encouragement"
	"github.com/serenity-chat/server/internal/metrics"
	logx "github.com/serenity-chat/server/pkg/logger"
)

type Config struct {
	Port             string   `envconfig:"PORT" default:"8080"`
	AllowOrigins     []string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
	MaxMessageLength int      `ignored:"true"`
	StorageBackend   string   `ignored:"true"`
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Server struct {
	echo          *echo.Echo
	config        Config
	conversations *conversations.MessagesManager
	runner        graph.Runner
	encourager    *encouragement.Generator
	metrics       *metrics.Metrics
	healthChecks  []HealthCheck
	startTime     time.Time
}

type Option func(*Server)

func WithHealthCheck(name string, check func(ctx context.Context) error) Option {
	return func(s *Server) {
		s.healthChecks = append(s.healthChecks, HealthCheck{Name: name, Check: check})
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

func NewServer(
	cfg Config,
	mm *conversations.MessagesManager,
	runner graph.Runner,
	encourager *encouragement.Generator,
	opts ...Option,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := logx.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = logx.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.AllowOrigins}))
	e.Use(errorMiddleware())

	srv := &Server{
		echo:          e,
		config:        cfg,
		conversations: mm,
		runner:        runner,
		encourager:    encourager,
		startTime:     time.Now(),
	}
	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()
	return srv
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	logx.Info().Str("port", s.config.Port).Msg("Starting server")
	err := s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
