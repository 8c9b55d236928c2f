package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus pass observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "arbor").
	Namespace string

	// Subsystem is the metrics subsystem (default: "render").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration in seconds.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// FrameBuckets are the histogram buckets for frames per pass.
	FrameBuckets []float64

	// Registry is the Prometheus registry to register with.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus pass observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithBuckets sets the pass-duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithFrameBuckets sets the frames-per-pass histogram buckets.
func WithFrameBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.FrameBuckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:    "arbor",
		Subsystem:    "render",
		Buckets:      prometheus.DefBuckets,
		FrameBuckets: []float64{8, 32, 128, 512, 2048, 8192},
		Registry:     prometheus.DefaultRegisterer,
	}
}

// metricsObserver records Prometheus metrics per render pass.
type metricsObserver struct {
	passesTotal  *prometheus.CounterVec
	passDuration *prometheus.HistogramVec
	passFrames   prometheus.Histogram
	buildErrors  *prometheus.CounterVec
}

// Prometheus creates a pass observer that records render metrics:
// passes by root and status, pass duration, frames per pass, and build
// errors by contract-violation code.
func Prometheus(opts ...MetricsOption) PassObserver {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &metricsObserver{
		passesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "passes_total",
			Help:        "Render passes, by root and status.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"root", "status"}),
		passDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Render pass duration in seconds.",
			Buckets:     cfg.Buckets,
			ConstLabels: cfg.ConstLabels,
		}, []string{"root"}),
		passFrames: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "pass_frames",
			Help:        "Frames produced per render pass.",
			Buckets:     cfg.FrameBuckets,
			ConstLabels: cfg.ConstLabels,
		}),
		buildErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "build_errors_total",
			Help:        "Builder contract violations, by code.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"code"}),
	}
}

// BeginPass implements PassObserver.
func (m *metricsObserver) BeginPass(ctx context.Context, root string) (context.Context, EndPass) {
	start := time.Now()
	return ctx, func(stats PassStats) {
		status := "ok"
		if stats.Err != nil {
			status = "error"
			m.buildErrors.WithLabelValues(errorCodeLabel(stats.Err)).Inc()
		}
		m.passesTotal.WithLabelValues(root, status).Inc()
		m.passDuration.WithLabelValues(root).Observe(time.Since(start).Seconds())
		m.passFrames.Observe(float64(stats.Frames))
	}
}
