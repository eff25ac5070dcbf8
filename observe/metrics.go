package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricGetTotal           = "block.get.total"
	MetricCacheHits          = "block.cache.hits"
	MetricProviderErrors     = "block.provider.errors"
	MetricValidationFailures = "block.validation.failures"
	MetricGetDuration        = "block.get.duration_ms"
)

// Metrics records retrieval metrics for blocks.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordGet records one orchestrated retrieval.
	RecordGet(ctx context.Context, meta BlockMeta, duration time.Duration, outcome Outcome)
}

type metricsImpl struct {
	total        metric.Int64Counter
	cacheHits    metric.Int64Counter
	providerErrs metric.Int64Counter
	invalid      metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates the block instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	total, err := meter.Int64Counter(MetricGetTotal,
		metric.WithDescription("Total number of block retrievals"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(MetricCacheHits,
		metric.WithDescription("Block retrievals served from cache"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	providerErrs, err := meter.Int64Counter(MetricProviderErrors,
		metric.WithDescription("Block retrievals whose provider failed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	invalid, err := meter.Int64Counter(MetricValidationFailures,
		metric.WithDescription("Block retrievals that failed validation"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(MetricGetDuration,
		metric.WithDescription("Block retrieval duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		total:        total,
		cacheHits:    cacheHits,
		providerErrs: providerErrs,
		invalid:      invalid,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) RecordGet(ctx context.Context, meta BlockMeta, duration time.Duration, outcome Outcome) {
	opt := metric.WithAttributes(
		attribute.String("block.type", meta.Type),
		attribute.Bool("block.from_cache", outcome.FromCache),
	)

	m.total.Add(ctx, 1, opt)
	if outcome.FromCache {
		m.cacheHits.Add(ctx, 1, opt)
	}
	// Provider failures surface as invalid results too; count them apart.
	if outcome.ProviderError {
		m.providerErrs.Add(ctx, 1, opt)
	} else if outcome.Failed() {
		m.invalid.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

type nopMetrics struct{}

func (nopMetrics) RecordGet(context.Context, BlockMeta, time.Duration, Outcome) {}
