// Package xlog 基于 log/slog 的结构化日志。
//
// # 创建 Logger
//
// 使用 Builder 模式（first-error-wins：遇到第一个配置错误后，Build 返回该错误）：
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetRotation("/var/log/app.log", xlog.WithMaxSizeMB(50)).
//		Build()
//	defer cleanup()
//
// # Context 注入
//
// 默认启用 [EnrichHandler]：日志记录时从 context 中取出 xctx 保存的链路上下文，
// 追加 trace_id、span_id、sampling_priority、origin。
//
// # 全局 Logger
//
// 适用于脚手架、命令行工具等简单场景，库代码推荐依赖注入：
// [Default]、[SetDefault]、[ResetDefault]，以及 [Debug]、[Info]、[Warn]、[Error]。
//
// # 日志级别
//
// LevelDebug(-4)、LevelInfo(0)、LevelWarn(4)、LevelError(8)，
// Level 实现 encoding.TextUnmarshaler，可直接从配置文件反序列化。
package xlog
