package observe

import (
	"context"
	"time"
)

// GetFunc is the signature of an orchestrated block retrieval as seen by
// the Middleware.
type GetFunc func(ctx context.Context, meta BlockMeta) Outcome

// Middleware wraps block retrieval with tracing, metrics, and logging.
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe GetFunc.
//   - Context: Propagates context through tracing spans.
//   - Ownership: the Outcome is returned unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability
// components. Nil components are replaced with no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNopTracer()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// NopMiddleware returns a Middleware that records nothing.
func NopMiddleware() *Middleware {
	return NewMiddleware(nil, nil, nil)
}

// Wrap wraps a GetFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn GetFunc) GetFunc {
	return func(ctx context.Context, meta BlockMeta) Outcome {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		outcome := fn(ctx, meta)

		duration := time.Since(start)
		m.tracer.EndSpan(span, outcome)
		m.metrics.RecordGet(ctx, meta, duration, outcome)

		logger := m.logger.WithBlock(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
			{Key: "from_cache", Value: outcome.FromCache},
		}

		switch {
		case outcome.ProviderError:
			logger.Error(ctx, "block provider failed", append(fields, Field{Key: "codes", Value: outcome.Codes})...)
		case outcome.Failed():
			logger.Warn(ctx, "block failed validation", append(fields, Field{Key: "codes", Value: outcome.Codes})...)
		case outcome.FromCache:
			logger.Debug(ctx, "block served from cache", fields...)
		default:
			logger.Info(ctx, "block fetched", fields...)
		}

		return outcome
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return NopMiddleware(), nil
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
