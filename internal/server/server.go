// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jeranaias/termfolio/internal/config"
	"github.com/jeranaias/termfolio/internal/content"
	"github.com/jeranaias/termfolio/internal/reveal"
	"github.com/jeranaias/termfolio/internal/storage"
	"github.com/jeranaias/termfolio/internal/terminal"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 10 * time.Second

	// maxCommandLen is the longest command a web session accepts, in bytes.
	maxCommandLen = 1024

	// statsLimit is how many top paths and commands /api/stats returns.
	statsLimit = 10

	// SourceWeb tags commands run through the HTTP API.
	SourceWeb = "web"
)

// Recorder persists visitor and command statistics. *storage.Store
// satisfies it.
type Recorder interface {
	RecordVisit(ctx context.Context, v storage.Visit) error
	RecordCommand(ctx context.Context, c storage.CommandRecord) error
	Stats(ctx context.Context, since time.Time, limit int) (storage.Stats, error)
}

// ============================================================================
// SERVER STATS
// ============================================================================

// ServerStats tracks process-level counters.
type ServerStats struct {
	StartTime time.Time
	requests  atomic.Int64
	commands  atomic.Int64
}

// NewServerStats starts the uptime clock.
func NewServerStats(now time.Time) *ServerStats {
	return &ServerStats{StartTime: now}
}

// Requests returns how many API requests were served.
func (s *ServerStats) Requests() int64 { return s.requests.Load() }

// Commands returns how many commands web sessions ran.
func (s *ServerStats) Commands() int64 { return s.commands.Load() }

// Uptime returns the time since start.
func (s *ServerStats) Uptime(now time.Time) time.Duration {
	return now.Sub(s.StartTime)
}

// ============================================================================
// SERVER
// ============================================================================

// Options configures a Server.
type Options struct {
	Config   config.ServerConfig
	Terminal config.TerminalConfig
	Reveal   reveal.Config
	Bundle   *content.Bundle

	// Recorder receives visits and commands. Nil disables tracking and the
	// stats endpoint.
	Recorder Recorder

	// CORS defaults to DefaultCORSConfig.
	CORS *CORSConfig

	Now    func() time.Time
	Logger *slog.Logger
}

// Server is the HTTP front end: JSON endpoints driving one terminal engine
// per browser session.
type Server struct {
	cfg      config.ServerConfig
	termCfg  config.TerminalConfig
	revealCf reveal.Config
	recorder Recorder
	sessions *SessionStore
	limiter  *RateLimiter
	stats    *ServerStats
	engine   *gin.Engine
	now      func() time.Time
	logger   *slog.Logger

	mu     sync.RWMutex
	bundle *content.Bundle
	server *http.Server
}

// New builds a server and its routes. It does not listen until Run.
func New(opts Options) (*Server, error) {
	if opts.Bundle == nil {
		opts.Bundle = content.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.CORS == nil {
		opts.CORS = DefaultCORSConfig()
	}
	if opts.Reveal == (reveal.Config{}) {
		opts.Reveal = reveal.DefaultConfig()
	}
	if _, err := terminal.ParseMode(opts.Terminal.StartMode); err != nil {
		return nil, fmt.Errorf("start mode: %w", err)
	}

	cfg := opts.Config
	if cfg.Salt == "" {
		cfg.Salt = RandomSalt()
	}

	s := &Server{
		cfg:      cfg,
		termCfg:  opts.Terminal,
		revealCf: opts.Reveal,
		recorder: opts.Recorder,
		bundle:   opts.Bundle,
		limiter:  NewRateLimiter(cfg.RatePerSec, cfg.Burst),
		stats:    NewServerStats(opts.Now()),
		now:      opts.Now,
		logger:   opts.Logger.With("component", "server"),
	}
	s.sessions = NewSessionStore(
		time.Duration(cfg.SessionTTLMin)*time.Minute, cfg.MaxSessions, opts.Now, s.logger)

	engine := gin.New()
	if err := engine.SetTrustedProxies(ParseTrustedProxies(cfg.TrustedProxies)); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	engine.Use(
		RecoveryMiddleware(s.logger),
		SecurityHeadersMiddleware(),
		LoggingMiddleware(s.logger),
		CORSMiddleware(opts.CORS),
		RateLimitMiddleware(s.limiter),
		s.countRequests,
	)
	if s.recorder != nil && cfg.TrackVisitors {
		engine.Use(VisitorMiddleware(s.recorder, cfg.Salt, s.logger))
	}
	s.engine = engine
	s.setupRoutes()
	return s, nil
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api")
	api.GET("/commands", s.handleCommands)
	api.GET("/themes", s.handleThemes)
	api.GET("/sections", s.handleSections)

	api.POST("/sessions", s.handleCreateSession)
	api.GET("/sessions/:id/transcript", s.handleTranscript)
	api.POST("/sessions/:id/run", s.handleRun)
	api.POST("/sessions/:id/visible", s.handleVisible)
	api.PUT("/sessions/:id/mode", s.handleMode)
	api.DELETE("/sessions/:id", s.handleDeleteSession)

	if s.recorder != nil {
		api.GET("/stats", s.handleStats)
	}
}

func (s *Server) countRequests(c *gin.Context) {
	s.stats.requests.Add(1)
	c.Next()
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Sessions returns the web session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// SetBundle swaps in reloaded content. Live sessions keep their transcript
// and pick up the new outputs; new sessions get the new sections.
func (s *Server) SetBundle(b *content.Bundle) {
	if b == nil {
		return
	}
	s.mu.Lock()
	s.bundle = b
	s.mu.Unlock()
	s.sessions.SetOutputs(b.Outputs)
	s.logger.Info("content reloaded", "sections", len(b.Sections))
}

func (s *Server) currentBundle() *content.Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	sweep := time.NewTicker(time.Minute)
	defer sweep.Stop()

	for {
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-sweep.C:
			s.sessions.Sweep()
		case <-ctx.Done():
			return s.Shutdown()
		}
	}
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown() error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}

	s.logger.Info("http server shutting down",
		"requests", s.stats.Requests(), "commands", s.stats.Commands())
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// ============================================================================
// HELPERS
// ============================================================================

type errorResponse struct {
	Error string `json:"error"`
}

func errorBody(message string) errorResponse {
	return errorResponse{Error: message}
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorBody(message))
}
