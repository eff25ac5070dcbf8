package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type testRig struct {
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *bytes.Buffer
	mw     *Middleware
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	logs := &bytes.Buffer{}
	logger := NewLoggerWithWriter("debug", logs)

	return &testRig{
		spans:  spans,
		reader: reader,
		logs:   logs,
		mw:     NewMiddleware(NewTracer(tp.Tracer("test")), metrics, logger),
	}
}

func (r *testRig) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := r.reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect metrics: %v", err)
	}
	m := findMetric(rm, name)
	if m == nil {
		return 0
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s is %T, want Sum[int64]", name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMiddleware_FetchedPath(t *testing.T) {
	rig := newTestRig(t)
	meta := BlockMeta{Type: "local-data-card", Key: "local-data-card:city:Austin"}

	wrapped := rig.mw.Wrap(func(ctx context.Context, m BlockMeta) Outcome {
		return Outcome{Valid: true}
	})
	out := wrapped(context.Background(), meta)
	if !out.Valid {
		t.Fatal("outcome should pass through unchanged")
	}

	spans := rig.spans.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "block.get.local-data-card" {
		t.Errorf("span name = %q", spans[0].Name())
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("span status = %v, want Ok", spans[0].Status().Code)
	}

	if got := rig.counter(t, MetricGetTotal); got != 1 {
		t.Errorf("%s = %d, want 1", MetricGetTotal, got)
	}
	if got := rig.counter(t, MetricCacheHits); got != 0 {
		t.Errorf("%s = %d, want 0", MetricCacheHits, got)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(rig.logs.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "block fetched" || entry["block.type"] != "local-data-card" {
		t.Errorf("unexpected log entry: %v", entry)
	}
}

func TestMiddleware_CacheHitPath(t *testing.T) {
	rig := newTestRig(t)
	wrapped := rig.mw.Wrap(func(ctx context.Context, m BlockMeta) Outcome {
		return Outcome{Valid: true, FromCache: true}
	})
	wrapped(context.Background(), BlockMeta{Type: "proof-slot"})

	if got := rig.counter(t, MetricCacheHits); got != 1 {
		t.Errorf("%s = %d, want 1", MetricCacheHits, got)
	}
	if !strings.Contains(rig.logs.String(), "block served from cache") {
		t.Errorf("expected cache-hit log, got %s", rig.logs.String())
	}
}

func TestMiddleware_ProviderErrorPath(t *testing.T) {
	rig := newTestRig(t)
	wrapped := rig.mw.Wrap(func(ctx context.Context, m BlockMeta) Outcome {
		return Outcome{ProviderError: true, Codes: []string{"PROVIDER_ERROR"}}
	})
	wrapped(context.Background(), BlockMeta{Type: "industry-kpi-map"})

	spans := rig.spans.Ended()
	if len(spans) != 1 || spans[0].Status().Code != codes.Error {
		t.Fatalf("expected one errored span, got %v", spans)
	}
	if spans[0].Status().Description != "PROVIDER_ERROR" {
		t.Errorf("span description = %q", spans[0].Status().Description)
	}
	if got := rig.counter(t, MetricProviderErrors); got != 1 {
		t.Errorf("%s = %d, want 1", MetricProviderErrors, got)
	}
	if got := rig.counter(t, MetricValidationFailures); got != 0 {
		t.Errorf("%s = %d, want 0", MetricValidationFailures, got)
	}
	if !strings.Contains(rig.logs.String(), `"level":"error"`) {
		t.Errorf("expected error-level log, got %s", rig.logs.String())
	}
}

func TestMiddleware_ValidationFailurePath(t *testing.T) {
	rig := newTestRig(t)
	wrapped := rig.mw.Wrap(func(ctx context.Context, m BlockMeta) Outcome {
		return Outcome{Codes: []string{"INSUFFICIENT_KPIS", "STALE_DATA"}}
	})
	wrapped(context.Background(), BlockMeta{Type: "industry-kpi-map"})

	if got := rig.counter(t, MetricValidationFailures); got != 1 {
		t.Errorf("%s = %d, want 1", MetricValidationFailures, got)
	}
	if !strings.Contains(rig.logs.String(), "INSUFFICIENT_KPIS") {
		t.Errorf("expected codes in log, got %s", rig.logs.String())
	}
	if !strings.Contains(rig.logs.String(), `"level":"warn"`) {
		t.Errorf("expected a warn entry, got %s", rig.logs.String())
	}
}

func TestOutcome_Failed(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		want    bool
	}{
		{"fetched", Outcome{Valid: true}, false},
		{"cache hit", Outcome{Valid: true, FromCache: true}, false},
		{"stale cache hit", Outcome{FromCache: true, Codes: []string{"STALE_DATA"}}, true},
		{"validation failure", Outcome{Codes: []string{"MISSING_CITY"}}, true},
		{"provider error", Outcome{ProviderError: true, Codes: []string{"PROVIDER_ERROR"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.Failed(); got != tt.want {
				t.Errorf("Failed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNopMiddleware(t *testing.T) {
	mw := NopMiddleware()
	calls := 0
	out := mw.Wrap(func(ctx context.Context, m BlockMeta) Outcome {
		calls++
		return Outcome{Valid: true}
	})(context.Background(), BlockMeta{Type: "x"})

	if calls != 1 || !out.Valid {
		t.Errorf("calls=%d valid=%v, want 1 and true", calls, out.Valid)
	}
}

func TestMiddlewareFromObserver(t *testing.T) {
	mw, err := MiddlewareFromObserver(NopObserver())
	if err != nil {
		t.Fatalf("MiddlewareFromObserver: %v", err)
	}
	if mw == nil {
		t.Fatal("expected middleware")
	}

	mw, err = MiddlewareFromObserver(nil)
	if err != nil || mw == nil {
		t.Fatalf("nil observer: mw=%v err=%v", mw, err)
	}
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}
