// Package server provides the HTTP server for the SignScribe gesture transcriber.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/signscribe/internal/events"
	"github.com/ayusman/signscribe/internal/server/api"
	"github.com/ayusman/signscribe/internal/session"
	"github.com/ayusman/signscribe/internal/store"
)

// Subscriber hands out per-connection event streams. *events.Bus implements it.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan events.Event, error)
}

// Config holds the server configuration. Routes are only registered for the
// collaborators that are set.
type Config struct {
	StaticDir string
	Session   *session.Session
	Store     *store.Store
	Bus       Subscriber
	Logger    *zap.Logger
}

// Server represents the HTTP server for the SignScribe application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	logger *zap.Logger
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		logger: logger.Named("http"),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if sess := s.config.Session; sess != nil {
		sessionHandler := api.NewSessionHandler(sess)
		s.mux.Handle("/api/session", sessionHandler)
		s.mux.Handle("/api/session/", sessionHandler)
		s.mux.Handle("/api/transcript", api.NewTranscriptHandler(sess))
		s.mux.Handle("/api/frames", api.NewFramesHandler(sess))
		s.mux.Handle("/api/classify", api.NewClassifyHandler(sess))
		s.mux.Handle("/api/settings/thresholds", api.NewThresholdsHandler(sess, s.config.Store, s.logger))
	}

	if s.config.Store != nil {
		historyHandler := api.NewHistoryHandler(s.config.Store)
		s.mux.Handle("/api/sessions", historyHandler)
		s.mux.Handle("/api/sessions/", historyHandler)
	}

	if s.config.Bus != nil {
		s.mux.Handle("/api/events", NewEventsHandler(s.config.Bus, s.logger))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Session != nil {
		response["running"] = s.config.Session.IsRunning()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, waiting up to five seconds for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
