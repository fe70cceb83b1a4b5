package xmetrics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/omeyang/xtracekit/pkg/observability/xmetrics"
)

func newRecorder(t *testing.T) (xmetrics.Recorder, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	rec, err := xmetrics.NewOTelRecorder(
		xmetrics.WithMeterProvider(provider),
		xmetrics.WithInstrumentationName("test"),
	)
	require.NoError(t, err)
	return rec, reader
}

// sums 按属性集合汇总某个计数器
func sums(t *testing.T, reader *sdkmetric.ManualReader, name string) map[attribute.Distinct]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[attribute.Distinct]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				out[dp.Attributes.Equivalent()] += dp.Value
			}
		}
	}
	return out
}

func key(kvs ...attribute.KeyValue) attribute.Distinct {
	s := attribute.NewSet(kvs...)
	return s.Equivalent()
}

func TestRecordExtract(t *testing.T) {
	rec, reader := newRecorder(t)
	ctx := context.Background()

	rec.RecordExtract(ctx, "datadog", xmetrics.OutcomeFound)
	rec.RecordExtract(ctx, "datadog", xmetrics.OutcomeFound)
	rec.RecordExtract(ctx, "tracecontext", xmetrics.OutcomeMalformed)

	got := sums(t, reader, "xtracekit.propagation.extract")
	assert.Equal(t, int64(2), got[key(
		attribute.String(xmetrics.AttrStyle, "datadog"),
		attribute.String(xmetrics.AttrOutcome, "found"),
	)])
	assert.Equal(t, int64(1), got[key(
		attribute.String(xmetrics.AttrStyle, "tracecontext"),
		attribute.String(xmetrics.AttrOutcome, "malformed"),
	)])
}

func TestRecordInject(t *testing.T) {
	rec, reader := newRecorder(t)

	rec.RecordInject(context.Background(), "tracecontext")

	got := sums(t, reader, "xtracekit.propagation.inject")
	assert.Equal(t, int64(1), got[key(attribute.String(xmetrics.AttrStyle, "tracecontext"))])
}

func TestRecordDecision(t *testing.T) {
	rec, reader := newRecorder(t)
	ctx := context.Background()

	rec.RecordDecision(ctx, 1)
	rec.RecordDecision(ctx, 0)
	rec.RecordDecision(ctx, 0)

	got := sums(t, reader, "xtracekit.sampling.decision")
	assert.Equal(t, int64(1), got[key(
		attribute.Int(xmetrics.AttrPriority, 1),
		attribute.Bool(xmetrics.AttrKept, true),
	)])
	assert.Equal(t, int64(2), got[key(
		attribute.Int(xmetrics.AttrPriority, 0),
		attribute.Bool(xmetrics.AttrKept, false),
	)])
}

func TestRecord_CanceledContext(t *testing.T) {
	rec, reader := newRecorder(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec.RecordInject(ctx, "datadog")
	//nolint:staticcheck // nil ctx 也要能计数
	rec.RecordInject(nil, "datadog")

	got := sums(t, reader, "xtracekit.propagation.inject")
	assert.Equal(t, int64(2), got[key(attribute.String(xmetrics.AttrStyle, "datadog"))])
}

func TestNewOTelRecorder_GlobalProvider(t *testing.T) {
	rec, err := xmetrics.NewOTelRecorder(nil, xmetrics.WithMeterProvider(nil))
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		rec.RecordExtract(context.Background(), "datadog", xmetrics.OutcomeMissing)
	})
}

func TestNoop(t *testing.T) {
	var rec xmetrics.Recorder = xmetrics.Noop{}
	assert.NotPanics(t, func() {
		rec.RecordExtract(context.Background(), "datadog", xmetrics.OutcomeFound)
		rec.RecordInject(context.Background(), "datadog")
		rec.RecordDecision(context.Background(), 2)
	})
}
