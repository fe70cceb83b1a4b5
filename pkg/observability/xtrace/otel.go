package xtrace

import (
	"context"
	"encoding/binary"

	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xtracekit/pkg/trace/xtracectx"
)

// SpanContextFrom 把链路上下文转换为远端 trace.SpanContext。
//
// trace-id 高 64 位为零；没有 trace_id 或活跃 span ID 时返回无效的 SpanContext。
// 采样优先级大于 0 时设置 sampled 标志，优先级和 origin 写入 tracestate 的 dd 成员。
func SpanContextFrom(tc *xtracectx.Context) trace.SpanContext {
	if tc == nil {
		return trace.SpanContext{}
	}
	traceID, ok := tc.TraceID()
	if !ok {
		return trace.SpanContext{}
	}
	spanID, ok := tc.ActiveSpanID()
	if !ok {
		return trace.SpanContext{}
	}

	var cfg trace.SpanContextConfig
	binary.BigEndian.PutUint64(cfg.TraceID[8:], traceID)
	binary.BigEndian.PutUint64(cfg.SpanID[:], spanID)
	if p, ok := tc.SamplingPriority(); ok && p > 0 {
		cfg.TraceFlags = trace.FlagsSampled
	}
	if dd := formatDDState(tc); dd != "" {
		if ts, err := (trace.TraceState{}).Insert(tracestateVendor, dd); err == nil {
			cfg.TraceState = ts
		}
	}
	cfg.Remote = true
	return trace.NewSpanContext(cfg)
}

// FromSpanContext 从 trace.SpanContext 构造传播态的链路上下文。
//
// 无效的 SpanContext 或低 64 位为零的 trace-id 返回空链路上下文。
func FromSpanContext(sc trace.SpanContext) *xtracectx.Context {
	if !sc.IsValid() {
		return xtracectx.New()
	}
	tid := sc.TraceID()
	traceID := binary.BigEndian.Uint64(tid[8:])
	if traceID == 0 {
		return xtracectx.New()
	}
	sid := sc.SpanID()

	st := parseDDState(sc.TraceState().Get(tracestateVendor))
	opts := []xtracectx.Option{
		xtracectx.WithTraceID(traceID),
		xtracectx.WithSpanID(binary.BigEndian.Uint64(sid[:])),
		xtracectx.WithSamplingPriority(mergePriority(sc.IsSampled(), st)),
	}
	if st.hasOrigin {
		opts = append(opts, xtracectx.WithOrigin(st.origin))
	}
	return xtracectx.New(opts...)
}

// ContextWithRemoteParent 把链路上下文作为远端父 span 放入 ctx，供 OTel tracer 开启子 span
func ContextWithRemoteParent(ctx context.Context, tc *xtracectx.Context) context.Context {
	sc := SpanContextFrom(tc)
	if !sc.IsValid() {
		return ctx
	}
	return trace.ContextWithRemoteSpanContext(ctx, sc)
}
