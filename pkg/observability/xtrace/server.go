package xtrace

import (
	"context"
	"errors"

	"github.com/omeyang/xtracekit/pkg/context/xctx"
	"github.com/omeyang/xtracekit/pkg/observability/xlog"
	"github.com/omeyang/xtracekit/pkg/observability/xsampling"
	"github.com/omeyang/xtracekit/pkg/trace/xspan"
	"github.com/omeyang/xtracekit/pkg/trace/xtracectx"
)

// Option HTTP 中间件与 gRPC 服务端拦截器共用的选项
type Option func(*serverConfig)

type serverConfig struct {
	autoGenerate bool
	spanName     string
	sampler      xsampling.Sampler
}

// WithAutoGenerate 上游没有链路信息时是否创建新的链路上下文，默认 true
func WithAutoGenerate(enabled bool) Option {
	return func(cfg *serverConfig) {
		cfg.autoGenerate = enabled
	}
}

// WithServerSpan 为每个请求开启一个本地根 span，请求结束时关闭；空名称表示不开启
func WithServerSpan(name string) Option {
	return func(cfg *serverConfig) {
		cfg.spanName = name
	}
}

// WithSampler 上游未携带采样优先级时使用的采样器
func WithSampler(s xsampling.Sampler) Option {
	return func(cfg *serverConfig) {
		cfg.sampler = s
	}
}

func applyOptions(opts []Option) *serverConfig {
	cfg := &serverConfig{autoGenerate: true}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// serve 入站请求的公共流程：提取 → 存入 ctx → 可选开启 span → 采样决策。
//
// 采样在 span 开启之后进行，新链路此时已有 trace_id，按 trace 的采样器可以保持一致。
// 返回的 finish 必须在请求处理结束后调用。
func (p *Propagator) serve(ctx context.Context, c Carrier, cfg *serverConfig, tags map[string]string) (context.Context, func()) {
	tc, err := p.Extract(c)
	if err != nil && !errors.Is(err, ErrNotFound) {
		p.warn(ctx, "xtrace: discard malformed inbound trace context", xlog.Err(err))
	}
	if tc == nil {
		if !cfg.autoGenerate {
			return ctx, func() {}
		}
		tc = xtracectx.New()
	}

	ctx, err = xctx.WithTraceContext(ctx, tc)
	if err != nil {
		p.warn(context.Background(), "xtrace: store trace context", xlog.Err(err))
		return ctx, func() {}
	}

	finish := func() {}
	if cfg.spanName != "" {
		opts := make([]xspan.StartOption, 0, len(tags))
		for k, v := range tags {
			opts = append(opts, xspan.WithTag(k, v))
		}
		finish = xspan.Start(tc, cfg.spanName, opts...).Finish
	}

	if cfg.sampler != nil {
		_, decided := tc.SamplingPriority()
		priority := xsampling.Prioritize(ctx, tc, cfg.sampler)
		if !decided {
			p.metrics.RecordDecision(ctx, priority)
		}
	}
	return ctx, finish
}

// outbound 取 ctx 中链路上下文的克隆体，出站请求不与本地 span 树共享对象
func outbound(ctx context.Context) *xtracectx.Context {
	tc := xctx.TraceContext(ctx)
	if tc == nil {
		return nil
	}
	return tc.Clone()
}
