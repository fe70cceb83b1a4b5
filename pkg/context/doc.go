// Package context 提供在 context.Context 中携带链路上下文的子包。
//
// 子包列表：
//   - xctx: 存取 xtracectx.Context，生成日志用的链路属性
//
// 链路上下文随 context.Context 传递，不使用 goroutine 局部或全局变量。
package context
