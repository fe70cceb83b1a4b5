package xmetrics

import "errors"

var (
	// ErrCreateCounter 创建 OTel Counter 失败
	ErrCreateCounter = errors.New("xmetrics: create counter failed")

	// ErrCreateExporter 创建 Prometheus 导出器失败
	ErrCreateExporter = errors.New("xmetrics: create exporter failed")
)
