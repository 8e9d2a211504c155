// Package web exposes on-demand diagnosis over HTTP, so a dashboard or a
// cron probe can trigger runs without shell access to the host.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/richardbrown-dev/dht-doctor/internal/core"
	"github.com/richardbrown-dev/dht-doctor/internal/logging"
	"github.com/richardbrown-dev/dht-doctor/internal/session"
)

// Server serves diagnostic runs over HTTP. Sessions are serialized: only one
// monitored crawler exists at a time, so concurrent requests queue on the
// run mutex.
type Server struct {
	addr       string
	runner     *session.Runner
	logger     *logging.Logger
	httpServer *http.Server

	runMu sync.Mutex
}

// New creates a server.
func New(addr string, runner *session.Runner, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		addr:   addr,
		runner: runner,
		logger: logger.WithComponent("web"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/diagnose", s.handleDiagnose)
		r.Get("/probe", s.handleProbe)
	})

	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// No write timeout: a diagnose request legitimately takes the full
		// monitor deadline plus grace period.
		IdleTimeout: 60 * time.Second,
	}
	return s
}

// ListenAndServe blocks until the context is cancelled or the listener
// fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	rep, err := s.runner.Run(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsSpawnFailure(err) {
			status = http.StatusFailedDependency
		}
		s.logger.Error("diagnose request failed", "error", err)
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	results := s.runner.ProbeEndpoints(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"endpoints": results})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
