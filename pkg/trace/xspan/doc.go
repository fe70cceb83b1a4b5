// Package xspan 提供实现 xtracectx.Span 的最小 span 实体。
//
// span 的编码、上报、采样规则不在本包范围内；本包只负责
// ID 分配、标签存储，以及在开始/结束时驱动链路上下文的状态迁移。
//
// # 用法
//
//	tc := xtracectx.New()
//	root := xspan.Start(tc, "http.request")
//	child := xspan.Start(tc, "db.query", xspan.WithParent(root))
//	child.Finish()
//	root.Finish()
//
// 结合 context.Context 使用 [StartFromContext]，父 span 取自链路上下文的活跃 span。
//
// # 并发
//
// 标签读写受 RWMutex 保护，可以从多个 goroutine 打标签；
// Start/Finish 会修改链路上下文，调用方需要遵守 xtracectx 的单 goroutine 约束。
package xspan
