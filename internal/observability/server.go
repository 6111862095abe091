// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package observability serves metrics, health probes and live stat values
// over HTTP.
package observability

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"

	"github.com/holomush/modfloat/internal/sheet"
)

// StatSource is the read side of a sheet.
type StatSource interface {
	Names() []string
	Value(name string) (float64, error)
	Trace(name string) (string, error)
}

// StatView is the JSON form of one stat.
type StatView struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Trace string  `json:"trace,omitempty"`
}

// Server provides HTTP endpoints for metrics, health probes and stats.
type Server struct {
	addr       string
	stats      StatSource
	gatherer   prometheus.Gatherer
	logger     *slog.Logger
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates a server for stats listening on addr ("host:port";
// port 0 picks a free port). Metrics come from the default Prometheus
// registry.
func NewServer(addr string, stats StatSource, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:     addr,
		stats:    stats,
		gatherer: prometheus.DefaultGatherer,
		logger:   logger,
	}
}

// Handler returns the routes served by Start.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("GET /healthz/liveness", s.handleLiveness)
	mux.HandleFunc("GET /healthz/readiness", s.handleReadiness)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /stats/{name}", s.handleStat)
	return mux
}

// Start begins serving. The returned channel receives a serve error, if any,
// and is closed when the server stops.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("observability server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.Error("observability server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("observability server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_observability_server").Wrap(err)
		}
	}
	s.logger.Info("observability server stopped")
	return nil
}

// Addr returns the listening address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // client may disconnect
	w.Write([]byte("ok\n"))
}

// handleReadiness reports ready once the sheet defines at least one stat.
func (s *Server) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if len(s.stats.Names()) > 0 {
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck // client may disconnect
		w.Write([]byte("ok\n"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	//nolint:errcheck // client may disconnect
	w.Write([]byte("not ready\n"))
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	names := s.stats.Names()
	views := make([]StatView, 0, len(names))
	for _, name := range names {
		v, err := s.stats.Value(name)
		if err != nil {
			// Undefined between Names and Value; skip it.
			continue
		}
		views = append(views, StatView{Name: name, Value: v})
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleStat(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	v, err := s.stats.Value(name)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sheet.ErrStatNotFound) {
			status = http.StatusNotFound
		}
		s.writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	view := StatView{Name: name, Value: v}
	if r.URL.Query().Has("trace") {
		if view.Trace, err = s.stats.Trace(name); err != nil {
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Debug("writing response", "error", err)
	}
}
