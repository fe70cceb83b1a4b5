package xmetrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// PrometheusProvider 以 Prometheus 拉取格式暴露指标的 MeterProvider。
//
// 使用独立的 Registry，不注册到 prometheus.DefaultRegisterer。
type PrometheusProvider struct {
	provider *sdkmetric.MeterProvider
	registry *prometheus.Registry
}

// NewPrometheusProvider 创建 Prometheus 导出的 MeterProvider
func NewPrometheusProvider() (*PrometheusProvider, error) {
	reg := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg), otelprom.WithoutScopeInfo())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateExporter, err)
	}
	return &PrometheusProvider{
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)),
		registry: reg,
	}, nil
}

// MeterProvider 供 WithMeterProvider 使用
func (p *PrometheusProvider) MeterProvider() metric.MeterProvider {
	return p.provider
}

// Handler 返回 /metrics 处理器
func (p *PrometheusProvider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Shutdown 关闭 MeterProvider，之后的记录被丢弃
func (p *PrometheusProvider) Shutdown(ctx context.Context) error {
	return p.provider.Shutdown(ctx)
}
