package xtrace_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xtracekit/pkg/observability/xtrace"
	"github.com/omeyang/xtracekit/pkg/trace/xtracectx"
)

func TestSpanContextFrom(t *testing.T) {
	assert.False(t, xtrace.SpanContextFrom(nil).IsValid())
	assert.False(t, xtrace.SpanContextFrom(xtracectx.New(xtracectx.WithTraceID(1))).IsValid())

	tc := xtracectx.New(
		xtracectx.WithTraceID(0x1122334455667788),
		xtracectx.WithSpanID(0x99),
		xtracectx.WithSamplingPriority(xtracectx.PriorityUserKeep),
		xtracectx.WithOrigin("synthetics"),
	)
	sc := xtrace.SpanContextFrom(tc)
	require.True(t, sc.IsValid())
	assert.True(t, sc.IsRemote())
	assert.True(t, sc.IsSampled())
	assert.Equal(t, "00000000000000001122334455667788", sc.TraceID().String())
	assert.Equal(t, "0000000000000099", sc.SpanID().String())
	assert.Equal(t, "s:2;o:synthetics", sc.TraceState().Get("dd"))

	back := xtrace.FromSpanContext(sc)
	assert.Equal(t, tc.String(), back.String())
}

func TestFromSpanContext_Invalid(t *testing.T) {
	assert.Equal(t, xtracectx.StateEmpty, xtrace.FromSpanContext(trace.SpanContext{}).State())

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0x01},
		SpanID:  trace.SpanID{0x01},
	})
	require.True(t, sc.IsValid())
	assert.Equal(t, xtracectx.StateEmpty, xtrace.FromSpanContext(sc).State(), "低 64 位为零")
}

func TestContextWithRemoteParent_OTelChild(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	tc := xtracectx.New(
		xtracectx.WithTraceID(4242),
		xtracectx.WithSpanID(77),
		xtracectx.WithSamplingPriority(xtracectx.PriorityAutoKeep),
	)
	ctx := xtrace.ContextWithRemoteParent(context.Background(), tc)

	_, span := tp.Tracer("xtrace-test").Start(ctx, "otel.child")
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	got := spans[0]
	assert.Equal(t, xtrace.SpanContextFrom(tc).TraceID(), got.SpanContext.TraceID())
	assert.Equal(t, xtrace.SpanContextFrom(tc).SpanID(), got.Parent.SpanID())
	assert.True(t, got.Parent.IsRemote())

	// OTel 子 span 可以再转换回来继续传播
	child := xtrace.FromSpanContext(got.SpanContext)
	id, _ := child.TraceID()
	assert.Equal(t, uint64(4242), id)

	plain := context.Background()
	assert.Equal(t, plain, xtrace.ContextWithRemoteParent(plain, xtracectx.New()))
}
