package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// defaultTracerName is used when no tracer name is configured.
const defaultTracerName = "arbor"

// OTelConfig configures the OpenTelemetry pass observer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "arbor").
	TracerName string

	// Filter decides which passes to trace by root name. If nil, all
	// passes are traced.
	Filter func(root string) bool

	// Attributes supplies extra span attributes per pass.
	Attributes func(root string) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry pass observer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) { c.TracerName = name }
}

// WithPassFilter sets a filter deciding which roots are traced.
func WithPassFilter(filter func(root string) bool) OTelOption {
	return func(c *OTelConfig) { c.Filter = filter }
}

// WithAttributes sets a per-pass attribute supplier.
func WithAttributes(fn func(root string) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) { c.Attributes = fn }
}

// OTel creates a pass observer that starts a span per render pass and
// records frame count and failure state on it.
func OTel(opts ...OTelOption) PassObserver {
	cfg := &OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.tracer = otel.Tracer(cfg.TracerName)
	return &otelObserver{cfg: cfg}
}

type otelObserver struct {
	cfg *OTelConfig
}

// BeginPass implements PassObserver.
func (o *otelObserver) BeginPass(ctx context.Context, root string) (context.Context, EndPass) {
	if o.cfg.Filter != nil && !o.cfg.Filter(root) {
		return ctx, func(PassStats) {}
	}

	attrs := []attribute.KeyValue{attribute.String("arbor.root", root)}
	if o.cfg.Attributes != nil {
		attrs = append(attrs, o.cfg.Attributes(root)...)
	}

	ctx, span := o.cfg.tracer.Start(ctx, "arbor.render_pass",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)

	return ctx, func(stats PassStats) {
		span.SetAttributes(attribute.Int("arbor.frames", stats.Frames))
		if stats.Err != nil {
			span.RecordError(stats.Err)
			span.SetStatus(codes.Error, errorCodeLabel(stats.Err))
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}
