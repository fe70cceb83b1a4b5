// Package xmetrics 记录链路传播相关的 OpenTelemetry 指标。
//
// 业务代码只依赖 [Recorder] 接口，默认实现基于 OTel Metrics API，
// 未配置 MeterProvider 时使用全局 Provider（默认为 noop）。
//
//	rec, _ := xmetrics.NewOTelRecorder(xmetrics.WithMeterProvider(mp))
//	p, _ := xtrace.NewPropagator(xtrace.WithMetrics(rec))
//
// 需要对外暴露时，[NewPrometheusProvider] 提供以 Prometheus 格式拉取的 MeterProvider：
//
//	pp, _ := xmetrics.NewPrometheusProvider()
//	rec, _ := xmetrics.NewOTelRecorder(xmetrics.WithMeterProvider(pp.MeterProvider()))
//	mux.Handle("/metrics", pp.Handler())
//
// # 指标
//
//   - xtracekit.propagation.extract：属性 style / outcome
//   - xtracekit.propagation.inject：属性 style
//   - xtracekit.sampling.decision：属性 priority / kept
package xmetrics
