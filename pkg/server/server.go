package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/NCAR/cirrus-portal/pkg/chart"
	"github.com/NCAR/cirrus-portal/pkg/docsite"
	"github.com/NCAR/cirrus-portal/pkg/scm"
	"github.com/NCAR/cirrus-portal/pkg/tracker"
	"github.com/NCAR/cirrus-portal/pkg/uptime"
)

// statusSource resolves one uptime status page. Satisfied by
// *uptime.Client; swapped in tests.
type statusSource interface {
	PageStatus(ctx context.Context, name, slug string) uptime.PageStatus
}

// Server represents the portal HTTP server.
type Server struct {
	config      *Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter
	mu          sync.RWMutex
	ready       bool

	registry  *chart.Registry
	assembler *chart.Assembler
	tracker   tracker.Tracker
	docs      *docsite.Fetcher

	// newSCM and newStatusSource are indirection points for tests.
	newSCM          func(token string) scm.SourceControl
	newStatusSource func(baseURL string) statusSource
}

// Option customizes a Server.
type Option func(*Server)

// WithTracker replaces the issue tracker implementation.
func WithTracker(t tracker.Tracker) Option {
	return func(s *Server) {
		s.tracker = t
	}
}

// WithSourceControlFactory replaces how per-request GitHub clients are built.
func WithSourceControlFactory(f func(token string) scm.SourceControl) Option {
	return func(s *Server) {
		s.newSCM = f
	}
}

// WithStatusSourceFactory replaces how uptime clients are built.
func WithStatusSourceFactory(f func(baseURL string) statusSource) Option {
	return func(s *Server) {
		s.newStatusSource = f
	}
}

// NewServer creates a new server instance.
func NewServer(config *Config, opts ...Option) *Server {
	if config == nil {
		config = NewConfig()
	}

	reg := chart.NewRegistry()
	s := &Server{
		config:      config,
		rateLimiter: rate.NewLimiter(config.RateLimit, config.RateLimitBurst),
		registry:    reg,
		assembler:   chart.NewAssembler(reg),
		docs:        docsite.NewFetcher(),
		newSCM: func(token string) scm.SourceControl {
			return scm.NewGitHubClient(token)
		},
		newStatusSource: func(baseURL string) statusSource {
			return uptime.NewClient(baseURL)
		},
	}
	if config.JiraToken != "" {
		s.tracker = tracker.NewJiraTracker(config.JiraToken)
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Address, config.Port),
		Handler:      s.setupRoutes(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	return s
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// System endpoints (no rate limiting)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	// API endpoints with middleware
	mux.HandleFunc("/", s.withMiddleware(s.handleRoot))
	mux.HandleFunc("/v1/addons", s.withMiddleware(s.handleAddons))
	mux.HandleFunc("/v1/charts", s.withMiddleware(s.handleCharts))
	mux.HandleFunc("/v1/apps", s.withMiddleware(s.handleApps))
	mux.HandleFunc("/v1/status", s.withMiddleware(s.handleStatus))
	mux.HandleFunc("/v1/sla", s.withMiddleware(s.handleSLA))
	mux.HandleFunc("/v1/requests", s.withMiddleware(s.handleRequests))

	return mux
}

// SetReady marks the server as ready to serve traffic
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.SetReady(true)

	slog.Info("starting server", "addr", s.httpServer.Addr)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down server")
	return s.httpServer.Shutdown(shutdownCtx)
}

// RunWithConfig starts the server with graceful shutdown on SIGINT/SIGTERM.
func RunWithConfig(config *Config) error {
	slog.Info("server config",
		"name", config.Name,
		"version", config.Version,
		"port", config.Port,
		"rateLimit", config.RateLimit,
		"rateLimitBurst", config.RateLimitBurst,
		"readTimeout", config.ReadTimeout,
		"writeTimeout", config.WriteTimeout,
		"idleTimeout", config.IdleTimeout,
		"shutdownTimeout", config.ShutdownTimeout,
		"appsFile", config.AppsFile,
		"monitorsFile", config.MonitorsFile,
	)

	server := NewServer(config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
