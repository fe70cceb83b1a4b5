package xsampling

import (
	"context"

	"github.com/omeyang/xtracekit/pkg/context/xctx"
	"github.com/omeyang/xtracekit/pkg/trace/xtracectx"
)

// Prioritize 确保链路上下文有采样优先级并返回生效值。
//
// 已有优先级时原样返回；否则由 s 决策并写入 tc，s 为 nil 视为 Always。
// 决策时 tc 对 s 可见（通过 xctx），KeyBasedSampler + TraceIDKey 可直接使用。
// tc 为 nil 时只返回决策结果。
func Prioritize(ctx context.Context, tc *xtracectx.Context, s Sampler) int {
	if tc != nil {
		if p, ok := tc.SamplingPriority(); ok {
			return p
		}
	}
	if s == nil {
		s = Always()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if tc != nil && xctx.TraceContext(ctx) != tc {
		// tc 非 nil，不会失败
		ctx, _ = xctx.WithTraceContext(ctx, tc)
	}

	p := xtracectx.PriorityAutoReject
	if s.ShouldSample(ctx) {
		p = xtracectx.PriorityAutoKeep
	}
	if tc != nil {
		tc.SetSamplingPriority(p)
	}
	return p
}

// Keep 人工决定保留，覆盖已有优先级
func Keep(tc *xtracectx.Context) {
	if tc != nil {
		tc.SetSamplingPriority(xtracectx.PriorityUserKeep)
	}
}

// Reject 人工决定丢弃，覆盖已有优先级
func Reject(tc *xtracectx.Context) {
	if tc != nil {
		tc.SetSamplingPriority(xtracectx.PriorityUserReject)
	}
}

// Kept 优先级是否表示保留
func Kept(p int) bool {
	return p > 0
}
