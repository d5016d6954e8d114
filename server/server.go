// Package server exposes the analytics engine to the presentation layer
// over a websocket endpoint speaking the dispatch request/response
// envelope protocol. It renders nothing and stores nothing; every request
// carries its own part data and every response is a fresh value object.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/optiview/partbench/analytics/dispatch"
	"github.com/optiview/partbench/errors"
)

// DefaultPort is the development port for the analytics endpoint.
const DefaultPort = 8741

// Config sizes the analytics server.
type Config struct {
	Port int `json:"port"`

	// RequestsPerSecond and Burst bound each connection's token bucket.
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`
}

// DefaultConfig returns the standard server settings.
func DefaultConfig() Config {
	return Config{
		Port:              DefaultPort,
		RequestsPerSecond: 20,
		Burst:             40,
	}
}

// Server owns the HTTP listener and the shared background computation
// service the websocket handlers submit to.
type Server struct {
	cfg  Config
	svc  *dispatch.Service
	log  *zap.SugaredLogger
	http *http.Server
}

// NewServer wires the analytics endpoint around an existing computation
// service. The caller owns the service's lifecycle.
func NewServer(cfg Config, svc *dispatch.Service, log *zap.SugaredLogger) *Server {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultConfig().RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultConfig().Burst
	}

	s := &Server{
		cfg: cfg,
		svc: svc,
		log: log.Named("server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/analytics", s.handleAnalytics)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.log.Infow("Analytics endpoint listening", "port", s.cfg.Port)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "analytics server failed")
	}
	return nil
}

// Shutdown drains in-flight connections and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Infow("Analytics endpoint shutting down")
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}
