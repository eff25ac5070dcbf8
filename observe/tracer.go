package observe

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Tracer wraps OpenTelemetry tracing with block-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a block retrieval.
	StartSpan(ctx context.Context, meta BlockMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording the outcome.
	EndSpan(span trace.Span, outcome Outcome)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta BlockMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("block.type", meta.Type),
	}
	if meta.Key != "" {
		attrs = append(attrs, attribute.String("block.key", meta.Key))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, outcome Outcome) {
	span.SetAttributes(
		attribute.Bool("block.from_cache", outcome.FromCache),
		attribute.Bool("block.valid", outcome.Valid),
	)
	if len(outcome.Codes) > 0 {
		span.SetAttributes(attribute.StringSlice("block.error_codes", outcome.Codes))
	}

	if !outcome.Failed() {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, strings.Join(outcome.Codes, ","))
	}
	span.End()
}

type nopTracer struct {
	nop trace.Tracer
}

func newNopTracer() Tracer {
	return &nopTracer{nop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *nopTracer) StartSpan(ctx context.Context, meta BlockMeta) (context.Context, trace.Span) {
	return t.nop.Start(ctx, meta.SpanName())
}

func (t *nopTracer) EndSpan(span trace.Span, _ Outcome) {
	span.End()
}
