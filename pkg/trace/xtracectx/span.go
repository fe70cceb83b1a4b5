package xtracectx

// Span 是 Context 消费的 span 能力集合。
//
// Context 只持有 span 的非占有引用，span 的生命周期由插桩调用方负责，
// 结束时必须显式调用 [Context.CloseSpan]。
//
// 实现必须是可比较类型（通常是指针），CloseSpan 依赖 == 判断是否为本地根。
// Parent 对根 span 必须返回无类型的 nil，而不是包装了 nil 指针的接口值。
type Span interface {
	// TraceID 返回 span 所属链路 ID
	TraceID() uint64

	// SpanID 返回 span 自身 ID
	SpanID() uint64

	// Parent 返回父 span，根 span 返回 nil
	Parent() Span

	// SetMeta 写入字符串标签
	SetMeta(key, value string)

	// SetMetric 写入数值标签
	SetMetric(key string, value float64)

	// SetTraceContext 记录激活该 span 的 Context
	SetTraceContext(tc *Context)
}

// 链路级标签 key，写入本地根 span。
const (
	// KeySamplingPriority 采样优先级写入根 span metrics 时使用的 key
	KeySamplingPriority = "_sampling_priority_v1"

	// KeyOrigin 链路来源写入根 span meta 时使用的 key
	KeyOrigin = "_dd.origin"
)

// 采样优先级取值。
//
// 负值和 0 表示丢弃，正值表示保留；User* 为人工决策，Auto* 为采样器决策。
const (
	PriorityUserReject = -1
	PriorityAutoReject = 0
	PriorityAutoKeep   = 1
	PriorityUserKeep   = 2
)
