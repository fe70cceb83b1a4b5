// Package xtrace 在进程边界上传播链路上下文。
//
// 入站：从 HTTP Header / gRPC Metadata 提取上游的 trace_id、parent span_id、
// 采样优先级和 origin，构造 xtracectx.Context 放入 context.Context。
// 出站：把 context 中链路上下文的克隆体写入请求头。
//
// # 格式
//
// StyleDatadog:
//
//	x-datadog-trace-id           十进制 uint64
//	x-datadog-parent-id          十进制 uint64
//	x-datadog-sampling-priority  整数
//	x-datadog-origin             字符串
//
// StyleTraceContext（W3C）:
//
//	traceparent  00-{trace-id}-{parent-id}-{flags}
//	tracestate   dd=s:{priority};o:{origin}
//
// W3C trace-id 为 128 位，本包只使用低 64 位；注入时高 64 位补零。
// 采样标志与 tracestate 中的优先级不一致时以标志为准修正优先级。
//
// Extract 按配置顺序尝试各格式，第一个提供 trace_id 的格式生效。
//
// # 使用方式
//
//	p := xtrace.Default()
//	handler = p.Middleware(xtrace.WithServerSpan("http.request"))(handler)
//	_ = p.InjectToRequest(ctx, outReq)
//
//	grpc.NewServer(grpc.UnaryInterceptor(p.UnaryServerInterceptor()))
//	grpc.NewClient(target, grpc.WithUnaryInterceptor(p.UnaryClientInterceptor()))
//
// # OpenTelemetry
//
// [SpanContextFrom] / [FromSpanContext] 在链路上下文与 trace.SpanContext 之间转换，
// 便于与 OTel 插桩的组件共存。
package xtrace
