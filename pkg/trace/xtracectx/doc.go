// Package xtracectx 提供单条链路在本进程内的传播上下文（Trace Context）。
//
// Context 记录"当前活跃的 span"、保持本地根 span 可达（用于写入链路级属性），
// 并携带跨边界传播的元数据（采样优先级、来源标记），使在一个进程/goroutine
// 中开始的链路可以在另一个执行单元中正确续接。
//
// # 使用方式
//
// 插桩代码在 span 开始时调用 [Context.AddSpan]，结束时调用 [Context.CloseSpan]：
//
//	tc := xtracectx.New()
//	tc.AddSpan(root)   // 无父 span，成为本地根
//	tc.AddSpan(child)  // 当前 span 切换为 child
//	tc.CloseSpan(child) // 恢复为 root
//	tc.CloseSpan(root)  // 链路在本地结束，TraceID 被清空
//
// 从上游传播头恢复时，用种子值构造：
//
//	tc := xtracectx.New(
//		xtracectx.WithTraceID(42),
//		xtracectx.WithSpanID(7),
//		xtracectx.WithSamplingPriority(xtracectx.PriorityAutoKeep),
//		xtracectx.WithOrigin("synthetics"),
//	)
//
// # 采样优先级与来源
//
// [Context.SetSamplingPriority] 和 [Context.SetOrigin] 在存在本地根 span 时，
// 会同步写入根 span 的 metrics[KeySamplingPriority] / meta[KeyOrigin]。
// 根 span 尚未出现时仅更新 Context 自身字段，等 AddSpan 建立根 span 时一次性写入。
//
// 本包不做采样决策，只保存决策结果。
//
// # 并发模型
//
// Context 不加锁：同一实例在同一时刻只应由一个执行单元持有和修改。
// 跨 goroutine 交接必须通过 [Context.Clone]，它只复制传播字段
// （trace_id、span_id、采样优先级、来源），不复制 span 引用。
//
// # 调用方需避免的误用
//
// 以下情况不会在运行时报错，但会破坏状态：
//   - CloseSpan 一个从未在本 Context 上 AddSpan 的 span
//   - AddSpan 一个 trace_id 与当前不同的 span（静默合并两条链路）
//   - 期望修改克隆体会影响原 Context 上已激活的 span
//
// 通过 [WithDiagnostics] 注入日志器可对前两类误用输出告警，不改变状态迁移。
package xtracectx
