// Package api exposes the dispatchers over net/http.
package api

import (
	"context"
	"net/http"

	"github.com/okian/teamhub/internal/domain/dispatch"
	"github.com/okian/teamhub/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes mounted by Register.
const (
	PathCatchAll = "/"
	PathProbe    = "/api/test"
	PathMetrics  = "/metrics"
)

// Dispatchers is the subset of the application the HTTP layer needs.
type Dispatchers interface {
	API() *dispatch.Dispatcher
	Probe() *dispatch.Dispatcher
}

// Server wires HTTP routes to the dispatchers.
type Server struct {
	deps           Dispatchers
	maxBodyBytes   int64
	probeEnabled   bool
	metricsEnabled bool
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithProbe toggles the /api/test probe dispatcher.
func WithProbe(enabled bool) Option {
	return func(s *Server) {
		s.probeEnabled = enabled
	}
}

// WithMetricsEndpoint toggles /metrics.
func WithMetricsEndpoint(enabled bool) Option {
	return func(s *Server) {
		s.metricsEnabled = enabled
	}
}

// NewServer creates a new API server.
func NewServer(deps Dispatchers, opts ...Option) *Server {
	s := &Server{
		deps:           deps,
		maxBodyBytes:   DefaultMaxBodyBytes,
		probeEnabled:   true,
		metricsEnabled: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux. Every path not claimed by a more
// specific pattern reaches the API dispatcher, which answers 404 itself.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle(PathCatchAll, Handler(s.deps.API(), s.maxBodyBytes))
	if s.probeEnabled {
		mux.Handle(PathProbe, Handler(s.deps.Probe(), s.maxBodyBytes))
	}
	if s.metricsEnabled {
		mux.Handle(PathMetrics, promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	}
}
