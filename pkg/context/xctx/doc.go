// Package xctx 在 context.Context 中存取链路上下文（*xtracectx.Context）。
//
// xtracectx 只负责链路状态本身，不管理它存放在哪里；本包是 Go 中的"执行单元槽位"：
// 请求入口把从上游恢复的链路上下文放入 context，后续代码按 context 取出使用。
//
// # 命名约定
//
//	WithXxx(ctx, value)  - 注入
//	Xxx(ctx)             - 读取，缺失返回零值
//	RequireXxx(ctx)      - 读取，缺失返回错误
//
// # 并发
//
// context 会被多个 goroutine 共享，而 *xtracectx.Context 不是并发安全的。
// 派生 goroutine 前请使用 [Detach] 放入克隆体。
package xctx
