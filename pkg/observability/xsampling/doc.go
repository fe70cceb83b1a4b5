// Package xsampling 决定链路的采样优先级。
//
// xtracectx 只存储优先级，不做决策；本包提供决策策略，
// 并通过 [Prioritize] 把决策写回链路上下文（随后镜像到本地根 span）。
//
// # 策略
//
//   - Always() / Never()
//   - NewRateSampler(rate): 按比率随机采样
//   - NewKeyBasedSampler(rate, keyFunc): 按 key 一致性采样，key 通常为 [TraceIDKey]
//
// KeyBasedSampler 使用 xxhash，同一 trace_id 在所有进程中得到相同的决策，
// 上游未携带优先级时各服务仍能独立得出一致结论。
//
// # 优先级
//
// 采样器决策映射为 PriorityAutoKeep / PriorityAutoReject；
// 人工决策使用 [Keep] / [Reject]，映射为 PriorityUserKeep / PriorityUserReject。
// 已有优先级（例如从上游传入）时 Prioritize 不覆盖。
//
// 所有采样器并发安全。
package xsampling
