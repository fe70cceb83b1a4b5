package xctx

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/omeyang/xtracekit/pkg/trace/xtracectx"
)

// contextKey 包私有类型，字符串值便于调试
type contextKey string

const keyTraceContext = contextKey("xctx:trace_context")

var (
	// ErrNilContext 传入的 context 为 nil
	ErrNilContext = errors.New("xctx: nil context")

	// ErrNilTraceContext 注入的链路上下文为 nil
	ErrNilTraceContext = errors.New("xctx: nil trace context")

	// ErrMissingTraceContext context 中没有链路上下文
	ErrMissingTraceContext = errors.New("xctx: missing trace context")
)

// WithTraceContext 将链路上下文注入 context
func WithTraceContext(ctx context.Context, tc *xtracectx.Context) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if tc == nil {
		return nil, ErrNilTraceContext
	}
	return context.WithValue(ctx, keyTraceContext, tc), nil
}

// TraceContext 从 context 取出链路上下文，不存在返回 nil
func TraceContext(ctx context.Context) *xtracectx.Context {
	if ctx == nil {
		return nil
	}
	tc, _ := ctx.Value(keyTraceContext).(*xtracectx.Context)
	return tc
}

// RequireTraceContext 从 context 取出链路上下文，不存在返回 ErrMissingTraceContext
func RequireTraceContext(ctx context.Context) (*xtracectx.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	tc := TraceContext(ctx)
	if tc == nil {
		return nil, ErrMissingTraceContext
	}
	return tc, nil
}

// EnsureTraceContext 确保 context 中存在链路上下文，没有则放入一个空的新链路
func EnsureTraceContext(ctx context.Context) (context.Context, *xtracectx.Context, error) {
	if ctx == nil {
		return nil, nil, ErrNilContext
	}
	if tc := TraceContext(ctx); tc != nil {
		return ctx, tc, nil
	}
	tc := xtracectx.New()
	return context.WithValue(ctx, keyTraceContext, tc), tc, nil
}

// Detach 返回携带链路上下文克隆体的 context，用于交给新的 goroutine。
//
// context 中没有链路上下文时原样返回。
func Detach(ctx context.Context) context.Context {
	tc := TraceContext(ctx)
	if tc == nil {
		return ctx
	}
	return context.WithValue(ctx, keyTraceContext, tc.Clone())
}

// =============================================================================
// slog 集成
// =============================================================================

// 日志字段名
const (
	KeyTraceID          = "trace_id"
	KeySpanID           = "span_id"
	KeySamplingPriority = "sampling_priority"
	KeyOrigin           = "origin"

	// TraceAttrCount AppendTraceAttrs 最多追加的字段数，供调用方预分配
	TraceAttrCount = 4
)

// AppendTraceAttrs 追加 context 中链路上下文的已设置字段，零分配热路径
func AppendTraceAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	tc := TraceContext(ctx)
	if tc == nil {
		return attrs
	}
	if id, ok := tc.TraceID(); ok {
		attrs = append(attrs, slog.String(KeyTraceID, strconv.FormatUint(id, 10)))
	}
	if id, ok := tc.ActiveSpanID(); ok {
		attrs = append(attrs, slog.String(KeySpanID, strconv.FormatUint(id, 10)))
	}
	if p, ok := tc.SamplingPriority(); ok {
		attrs = append(attrs, slog.Int(KeySamplingPriority, p))
	}
	if o, ok := tc.Origin(); ok {
		attrs = append(attrs, slog.String(KeyOrigin, o))
	}
	return attrs
}

// TraceAttrs 同 AppendTraceAttrs，每次分配新切片，无字段时返回 nil
func TraceAttrs(ctx context.Context) []slog.Attr {
	attrs := AppendTraceAttrs(make([]slog.Attr, 0, TraceAttrCount), ctx)
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
