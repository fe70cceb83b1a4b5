package xtrace

import "errors"

var (
	// ErrNilCarrier 载体为 nil
	ErrNilCarrier = errors.New("xtrace: nil carrier")

	// ErrNilContext 链路上下文为 nil
	ErrNilContext = errors.New("xtrace: nil trace context")

	// ErrNilRequest HTTP 请求为 nil
	ErrNilRequest = errors.New("xtrace: nil request")

	// ErrNotFound 载体中没有任何格式的链路信息
	ErrNotFound = errors.New("xtrace: no trace context in carrier")

	// ErrMalformedTraceID trace_id 无法解析或为 0
	ErrMalformedTraceID = errors.New("xtrace: malformed trace id")

	// ErrMalformedSpanID parent span_id 无法解析
	ErrMalformedSpanID = errors.New("xtrace: malformed span id")

	// ErrMalformedPriority 采样优先级无法解析
	ErrMalformedPriority = errors.New("xtrace: malformed sampling priority")

	// ErrMalformedTraceparent traceparent 结构不合法
	ErrMalformedTraceparent = errors.New("xtrace: malformed traceparent")

	// ErrNoStyles 没有配置任何传播格式
	ErrNoStyles = errors.New("xtrace: no propagation styles")

	// ErrUnknownStyle 无法识别的传播格式
	ErrUnknownStyle = errors.New("xtrace: unknown propagation style")
)
