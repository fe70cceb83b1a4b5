package xtrace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/omeyang/xtracekit/pkg/observability/xlog"
	"github.com/omeyang/xtracekit/pkg/observability/xmetrics"
	"github.com/omeyang/xtracekit/pkg/trace/xtracectx"
)

// Propagator 按配置的格式提取与注入链路上下文，创建后只读，并发安全
type Propagator struct {
	styles  []Style
	logger  xlog.Logger
	metrics xmetrics.Recorder
	diag    bool
}

// PropagatorOption Propagator 选项
type PropagatorOption func(*Propagator)

// WithStyles 设置格式及其提取优先顺序，默认 [DefaultStyles]
func WithStyles(styles ...Style) PropagatorOption {
	return func(p *Propagator) {
		p.styles = slices.Clone(styles)
	}
}

// WithLogger 设置告警日志，默认使用 xlog 全局 Logger
func WithLogger(l xlog.Logger) PropagatorOption {
	return func(p *Propagator) {
		p.logger = l
	}
}

// WithMetrics 记录提取、注入与采样决策指标，nil 表示不记录
func WithMetrics(r xmetrics.Recorder) PropagatorOption {
	return func(p *Propagator) {
		p.metrics = r
	}
}

// WithContextDiagnostics 提取出的链路上下文开启 xtracectx 诊断日志
func WithContextDiagnostics(enable bool) PropagatorOption {
	return func(p *Propagator) {
		p.diag = enable
	}
}

// NewPropagator 创建 Propagator
func NewPropagator(opts ...PropagatorOption) (*Propagator, error) {
	p := &Propagator{styles: slices.Clone(DefaultStyles)}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.metrics == nil {
		p.metrics = xmetrics.Noop{}
	}
	if len(p.styles) == 0 {
		return nil, ErrNoStyles
	}
	for _, st := range p.styles {
		if st != StyleDatadog && st != StyleTraceContext {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, st)
		}
	}
	return p, nil
}

var defaultPropagator = &Propagator{styles: DefaultStyles, metrics: xmetrics.Noop{}}

// Default 使用默认格式的 Propagator
func Default() *Propagator {
	return defaultPropagator
}

// Styles 返回格式列表副本
func (p *Propagator) Styles() []Style {
	return slices.Clone(p.styles)
}

// Extract 从载体恢复链路上下文。
//
// 第一个提供 trace_id 的格式生效；某个格式解析失败时继续尝试后续格式，
// 全部失败返回合并的错误。没有任何链路信息时返回 ErrNotFound。
// 返回的 Context 处于传播态：只有种子值，没有 span。
func (p *Propagator) Extract(c Carrier) (*xtracectx.Context, error) {
	if isNilCarrier(c) {
		return nil, ErrNilCarrier
	}
	var errs []error
	for _, st := range p.styles {
		var (
			r     remote
			found bool
			err   error
		)
		switch st {
		case StyleDatadog:
			r, found, err = extractDatadog(c)
		case StyleTraceContext:
			r, found, err = extractTraceContext(c)
		}
		if err != nil {
			p.metrics.RecordExtract(context.Background(), st.String(), xmetrics.OutcomeMalformed)
			errs = append(errs, fmt.Errorf("%s: %w", st, err))
			continue
		}
		if !found {
			p.metrics.RecordExtract(context.Background(), st.String(), xmetrics.OutcomeMissing)
			continue
		}
		p.metrics.RecordExtract(context.Background(), st.String(), xmetrics.OutcomeFound)
		opts := r.options()
		if p.diag {
			opts = append(opts, xtracectx.WithDiagnostics(p.log()))
		}
		return xtracectx.New(opts...), nil
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, ErrNotFound
}

// Inject 把链路上下文写入载体。
//
// 没有 trace_id 或 trace_id 为 0 时不写入任何头，两种格式都不能表示 0。
// W3C 格式还要求有非零的活跃 span ID。
func (p *Propagator) Inject(tc *xtracectx.Context, c Carrier) error {
	if tc == nil {
		return ErrNilContext
	}
	if isNilCarrier(c) {
		return ErrNilCarrier
	}
	if id, ok := tc.TraceID(); !ok || id == 0 {
		return nil
	}
	for _, st := range p.styles {
		var written bool
		switch st {
		case StyleDatadog:
			written = injectDatadog(tc, c)
		case StyleTraceContext:
			written = injectTraceContext(tc, c)
		}
		if written {
			p.metrics.RecordInject(context.Background(), st.String())
		}
	}
	return nil
}

func (p *Propagator) log() xlog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return xlog.Default()
}

func (p *Propagator) warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	p.log().Warn(ctx, msg, attrs...)
}

func isNilCarrier(c Carrier) bool {
	switch v := c.(type) {
	case nil:
		return true
	case HeaderCarrier:
		return v == nil
	case MetadataCarrier:
		return v == nil
	case MapCarrier:
		return v == nil
	default:
		return false
	}
}
