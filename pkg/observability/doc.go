// Package observability 提供日志、传播、采样与指标相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展，自动附加链路属性
//   - xtrace: Datadog 与 W3C 请求头传播，HTTP/gRPC 中间件，OTel 桥接
//   - xsampling: 采样器与采样优先级决策
//   - xmetrics: 传播与采样的 OTel 指标
package observability
