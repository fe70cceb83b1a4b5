package xtracectx

import (
	"context"
	"log/slog"
)

// Logger 诊断日志接口，xlog.Logger 天然满足。
//
// 只声明 Warn，避免 xtracectx 反向依赖日志包。
type Logger interface {
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)
}

// Option Context 构造选项
type Option func(*Context)

// WithTraceID 设置从上游继承的 trace ID
func WithTraceID(id uint64) Option {
	return func(c *Context) {
		c.traceID = id
		c.hasTraceID = true
	}
}

// WithSpanID 设置上游父 span ID（作为初始的活跃 span ID）
func WithSpanID(id uint64) Option {
	return func(c *Context) {
		c.activeSpanID = id
		c.hasSpanID = true
	}
}

// WithSamplingPriority 设置上游采样优先级
func WithSamplingPriority(p int) Option {
	return func(c *Context) {
		c.priority = p
		c.hasPriority = true
	}
}

// WithOrigin 设置链路来源标记
func WithOrigin(origin string) Option {
	return func(c *Context) {
		c.origin = origin
		c.hasOrigin = true
	}
}

// WithDiagnostics 注入诊断日志器。
//
// 启用后 AddSpan/CloseSpan 会对可识别的误用输出 Warn 日志，
// 状态迁移与未启用时完全一致。nil 表示关闭诊断。
func WithDiagnostics(l Logger) Option {
	return func(c *Context) {
		c.diag = l
	}
}
