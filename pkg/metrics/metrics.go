// Package metrics exposes Prometheus instrumentation for the binding
// runtime: flush cycles, applied and coalesced writes, watcher
// notifications, and live view counts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the metrics collector.
type Config struct {
	// Namespace is the metrics namespace (default: "ripple").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the metrics collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "ripple",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector holds the Prometheus metrics for the binding runtime.
// A nil *Collector is valid and records nothing, so instrumentation calls
// never need guarding.
type Collector struct {
	flushCycles        prometheus.Counter
	writesApplied      prometheus.Counter
	writesCoalesced    prometheus.Counter
	writesCancelled    prometheus.Counter
	writeFailures      prometheus.Counter
	flushDuration      prometheus.Histogram
	viewsLive          prometheus.Gauge
	viewsCreated       prometheus.Counter
	viewsDestroyed     prometheus.Counter
	watchersRegistered prometheus.Counter
}

// NewCollector creates and registers the runtime metrics.
func NewCollector(opts ...Option) *Collector {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(cfg.Registry)

	return &Collector{
		flushCycles: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "flush_cycles_total",
			Help:        "Number of scheduler flush cycles.",
			ConstLabels: cfg.ConstLabels,
		}),
		writesApplied: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "writes_applied_total",
			Help:        "DOM writes applied by the scheduler.",
			ConstLabels: cfg.ConstLabels,
		}),
		writesCoalesced: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "writes_coalesced_total",
			Help:        "Writes replaced by a later write to the same binding site before flush.",
			ConstLabels: cfg.ConstLabels,
		}),
		writesCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "writes_cancelled_total",
			Help:        "Pending writes dropped because their view was destroyed.",
			ConstLabels: cfg.ConstLabels,
		}),
		writeFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "write_failures_total",
			Help:        "Writes that panicked during flush and were isolated.",
			ConstLabels: cfg.ConstLabels,
		}),
		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Duration of scheduler flush cycles.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: cfg.ConstLabels,
		}),
		viewsLive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "views_live",
			Help:        "Views currently alive (created and not destroyed).",
			ConstLabels: cfg.ConstLabels,
		}),
		viewsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "views_created_total",
			Help:        "Views created.",
			ConstLabels: cfg.ConstLabels,
		}),
		viewsDestroyed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "views_destroyed_total",
			Help:        "Views destroyed.",
			ConstLabels: cfg.ConstLabels,
		}),
		watchersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "watchers_registered_total",
			Help:        "Watcher registrations, including scope-chain delegations.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// FlushCycle records one flush cycle and its duration in seconds.
func (c *Collector) FlushCycle(seconds float64) {
	if c == nil {
		return
	}
	c.flushCycles.Inc()
	c.flushDuration.Observe(seconds)
}

// WriteApplied records a DOM write applied during flush.
func (c *Collector) WriteApplied() {
	if c == nil {
		return
	}
	c.writesApplied.Inc()
}

// WriteCoalesced records a write replaced before flush.
func (c *Collector) WriteCoalesced() {
	if c == nil {
		return
	}
	c.writesCoalesced.Inc()
}

// WriteCancelled records pending writes dropped by view destruction.
func (c *Collector) WriteCancelled(n int) {
	if c == nil {
		return
	}
	c.writesCancelled.Add(float64(n))
}

// WriteFailed records a write that panicked during flush.
func (c *Collector) WriteFailed() {
	if c == nil {
		return
	}
	c.writeFailures.Inc()
}

// ViewCreated records a view creation.
func (c *Collector) ViewCreated() {
	if c == nil {
		return
	}
	c.viewsCreated.Inc()
	c.viewsLive.Inc()
}

// ViewDestroyed records a view destruction.
func (c *Collector) ViewDestroyed() {
	if c == nil {
		return
	}
	c.viewsDestroyed.Inc()
	c.viewsLive.Dec()
}

// WatcherRegistered records a watcher registration.
func (c *Collector) WatcherRegistered() {
	if c == nil {
		return
	}
	c.watchersRegistered.Inc()
}
