package xtrace

import (
	"github.com/omeyang/xtracekit/pkg/observability/xsampling"
)

// Config 传播配置，可由 xconf 加载
type Config struct {
	// Styles 提取优先顺序，同时也是注入的格式集合
	Styles []string `koanf:"styles"`

	// AutoGenerate 上游没有链路信息时创建新链路
	AutoGenerate bool `koanf:"auto_generate"`

	// SpanName 非空时每个入站请求开启一个本地根 span
	SpanName string `koanf:"span_name"`

	// SampleRate 上游未决策时按 trace_id 一致性采样的比率
	SampleRate float64 `koanf:"sample_rate"`
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		Styles:       []string{StyleDatadog.String(), StyleTraceContext.String()},
		AutoGenerate: true,
		SampleRate:   1,
	}
}

// NewPropagator 按配置创建 Propagator，opts 追加在配置之后
func (c Config) NewPropagator(opts ...PropagatorOption) (*Propagator, error) {
	styles, err := ParseStyles(c.Styles)
	if err != nil {
		return nil, err
	}
	return NewPropagator(append([]PropagatorOption{WithStyles(styles...)}, opts...)...)
}

// ServerOptions 转换为中间件/拦截器选项
func (c Config) ServerOptions() ([]Option, error) {
	sampler, err := xsampling.NewKeyBasedSampler(c.SampleRate, xsampling.TraceIDKey)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithAutoGenerate(c.AutoGenerate),
		WithServerSpan(c.SpanName),
		WithSampler(sampler),
	}, nil
}
