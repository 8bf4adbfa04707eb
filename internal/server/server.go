package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/iTschetter/PhishingDetection/internal/adapters/render"
	"github.com/iTschetter/PhishingDetection/internal/core"
)

const shutdownTimeout = 5 * time.Second

// Analyzer is the part of the analyzer the control server drives
type Analyzer interface {
	Analyze(ctx context.Context, kind core.TriggerKind) (core.Outcome, bool)
	State() core.State
	Generation() uint64
}

// Server exposes metrics, analyzer status and a manual trigger over HTTP
type Server struct {
	addr     string
	analyzer Analyzer
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// New creates a control server listening on addr
func New(addr string, analyzer Analyzer, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	return &Server{
		addr:     addr,
		analyzer: analyzer,
		gatherer: gatherer,
		logger:   logger,
	}
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/status", s.statusHandler)
	mux.HandleFunc("/analyze", s.analyzeHandler)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Control server listening", zap.String("address", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("control server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down control server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusResponse struct {
	State      string `json:"state"`
	Generation uint64 `json:"generation"`
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET required", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		State:      s.analyzer.State().String(),
		Generation: s.analyzer.Generation(),
	})
}

// analyzeHandler runs a manual analysis and returns its outcome. A trigger
// that arrives mid-run is dropped and answered with 409.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	outcome, ok := s.analyzer.Analyze(r.Context(), core.TriggerManual)
	if !ok {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "analysis already in progress"})
		return
	}
	writeJSON(w, http.StatusOK, render.NewReport(outcome))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
