package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config holds the demo server settings. Zero-value fields fall back to
// the defaults from DefaultConfig.
type Config struct {
	// Address is the listen address (default "localhost:3000").
	Address string

	// InitialData is the data each new session's view starts with. The
	// map is copied per session.
	InitialData map[string]any

	// FrameInterval drives the per-session frame loop. Zero disables it;
	// the scheduler is still flushed once per inbound event.
	FrameInterval time.Duration

	// ReadTimeout bounds how long a websocket read may block.
	ReadTimeout time.Duration

	// WriteTimeout bounds each websocket write.
	WriteTimeout time.Duration

	// CheckOrigin validates websocket upgrade origins. The default
	// accepts all origins, which is fine for a local demo server.
	CheckOrigin func(r *http.Request) bool

	// MetricsEnabled exposes Prometheus metrics on /metrics and attaches
	// a collector to the view family.
	MetricsEnabled bool

	// MetricsNamespace is the metric namespace (default "ripple").
	MetricsNamespace string

	// MetricsRegistry is the Prometheus registry to use. Defaults to a
	// fresh registry owned by the server.
	MetricsRegistry *prometheus.Registry

	// TracerName names the OpenTelemetry tracer (default "ripple").
	TracerName string
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:          "localhost:3000",
		ReadTimeout:      60 * time.Second,
		WriteTimeout:     10 * time.Second,
		CheckOrigin:      func(*http.Request) bool { return true },
		MetricsEnabled:   true,
		MetricsNamespace: "ripple",
		TracerName:       "ripple",
	}
}

// applyDefaults fills unset fields from DefaultConfig.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = d.CheckOrigin
	}
	if c.MetricsNamespace == "" {
		c.MetricsNamespace = d.MetricsNamespace
	}
	if c.TracerName == "" {
		c.TracerName = d.TracerName
	}
}
