// Package trace 提供链路上下文的核心类型。
//
// 子包列表：
//   - xtracectx: 链路上下文（trace ID、当前 span、采样优先级、来源）
//   - xspan: 满足 xtracectx.Span 的最小 span 实现
package trace
