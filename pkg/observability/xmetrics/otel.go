package xmetrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xtracekit/pkg/observability/xmetrics"

	metricExtract  = "xtracekit.propagation.extract"
	metricInject   = "xtracekit.propagation.inject"
	metricDecision = "xtracekit.sampling.decision"
)

// 指标属性 key
const (
	AttrStyle    = "style"
	AttrOutcome  = "outcome"
	AttrPriority = "priority"
	AttrKept     = "kept"
)

type otelConfig struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
}

// Option OTel Recorder 选项
type Option func(*otelConfig)

// WithInstrumentationName 设置 instrumentation 名称
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithMeterProvider 设置 MeterProvider，默认 otel.GetMeterProvider()
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

type otelRecorder struct {
	extract  metric.Int64Counter
	inject   metric.Int64Counter
	decision metric.Int64Counter
}

// NewOTelRecorder 创建基于 OpenTelemetry 的 Recorder
func NewOTelRecorder(opts ...Option) (Recorder, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	r := &otelRecorder{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&r.extract, metricExtract, "inbound trace context extractions"},
		{&r.inject, metricInject, "outbound trace context injections"},
		{&r.decision, metricDecision, "sampling priority decisions"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit("1"))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCreateCounter, c.name, err)
		}
		*c.dst = counter
	}
	return r, nil
}

// 指标记录使用不可取消的 ctx，请求超时后仍能计数
func (r *otelRecorder) RecordExtract(ctx context.Context, style string, outcome Outcome) {
	r.extract.Add(metricContext(ctx), 1, metric.WithAttributes(
		attribute.String(AttrStyle, style),
		attribute.String(AttrOutcome, string(outcome)),
	))
}

func (r *otelRecorder) RecordInject(ctx context.Context, style string) {
	r.inject.Add(metricContext(ctx), 1, metric.WithAttributes(
		attribute.String(AttrStyle, style),
	))
}

func (r *otelRecorder) RecordDecision(ctx context.Context, priority int) {
	r.decision.Add(metricContext(ctx), 1, metric.WithAttributes(
		attribute.Int(AttrPriority, priority),
		attribute.Bool(AttrKept, priority > 0),
	))
}

func metricContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
