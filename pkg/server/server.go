package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/thomsbg/ripple/pkg/metrics"
	"github.com/thomsbg/ripple/pkg/ripple"
)

// Server hosts a view family over HTTP. Each websocket connection gets
// its own view created from the family; inbound set events are applied to
// the view's model, the scheduler is flushed once per event turn, and the
// re-rendered HTML is streamed back as a frame.
type Server struct {
	family    *ripple.Family
	config    *Config
	logger    *slog.Logger
	collector *metrics.Collector
	registry  *prometheus.Registry
	upgrader  websocket.Upgrader
	tracer    trace.Tracer

	httpServer *http.Server
}

// New creates a demo server for the given view family.
func New(family *ripple.Family, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	} else {
		config.applyDefaults()
	}

	s := &Server{
		family: family,
		config: config,
		logger: slog.Default().With("component", "server"),
		tracer: otel.Tracer(config.TracerName),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
	}

	if config.MetricsEnabled {
		s.registry = config.MetricsRegistry
		if s.registry == nil {
			s.registry = prometheus.NewRegistry()
		}
		s.collector = metrics.NewCollector(
			metrics.WithNamespace(config.MetricsNamespace),
			metrics.WithRegistry(s.registry),
		)
		family.WithMetrics(s.collector)
	}

	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWS)
	r.Get("/healthz", s.handleHealth)
	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// Start listens on the configured address and serves until Shutdown is
// called or the listener fails.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.config.Address,
		Handler: s.Handler(),
	}
	s.logger.Info("listening", "address", s.config.Address)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
