package xtracectx

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
)

// Context 单条链路在本进程内的传播状态。
//
// 零值可用，等价于 New()。非并发安全，见包文档。
type Context struct {
	traceID      uint64
	activeSpanID uint64
	priority     int
	origin       string

	hasTraceID  bool
	hasSpanID   bool
	hasPriority bool
	hasOrigin   bool

	localRoot Span
	active    Span

	// rootClosed 本地根 span 已关闭且之后没有新的 span 激活
	rootClosed bool

	diag Logger
}

// New 创建 Context。
//
// 不传选项时得到一个全新的本地链路；从上游传播数据恢复时传入种子值。
// activeSpan 和 localRootSpan 总是为空。
func New(opts ...Option) *Context {
	c := &Context{}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// SamplingPriority 返回采样优先级，未决策时 ok 为 false
func (c *Context) SamplingPriority() (p int, ok bool) {
	return c.priority, c.hasPriority
}

// SetSamplingPriority 设置采样优先级。
//
// 存在本地根 span 时同步写入其 metrics[KeySamplingPriority]。
func (c *Context) SetSamplingPriority(p int) {
	if c.localRoot != nil {
		c.localRoot.SetMetric(KeySamplingPriority, float64(p))
	}
	c.priority = p
	c.hasPriority = true
}

// Origin 返回链路来源，未设置时 ok 为 false
func (c *Context) Origin() (origin string, ok bool) {
	return c.origin, c.hasOrigin
}

// SetOrigin 设置链路来源。
//
// 存在本地根 span 时同步写入其 meta[KeyOrigin]。
func (c *Context) SetOrigin(origin string) {
	if c.localRoot != nil {
		c.localRoot.SetMeta(KeyOrigin, origin)
	}
	c.origin = origin
	c.hasOrigin = true
}

// TraceID 返回链路 ID，不存在时 ok 为 false
func (c *Context) TraceID() (id uint64, ok bool) {
	return c.traceID, c.hasTraceID
}

// ActiveSpanID 返回当前活跃 span ID，不存在时 ok 为 false
func (c *Context) ActiveSpanID() (id uint64, ok bool) {
	return c.activeSpanID, c.hasSpanID
}

// Clone 返回只含传播字段的独立副本。
//
// 副本携带 trace ID、活跃 span ID、采样优先级和来源，不携带 span 引用，
// 用于交给另一个 goroutine/任务/进程构建自己的本地 span 树。
// 修改副本不影响原 Context，反之亦然。
func (c *Context) Clone() *Context {
	return &Context{
		traceID:      c.traceID,
		activeSpanID: c.activeSpanID,
		priority:     c.priority,
		origin:       c.origin,
		hasTraceID:   c.hasTraceID,
		hasSpanID:    c.hasSpanID,
		hasPriority:  c.hasPriority,
		hasOrigin:    c.hasOrigin,
		diag:         c.diag,
	}
}

// CurrentRootSpan 返回本地根 span，不存在时返回 nil
func (c *Context) CurrentRootSpan() Span {
	return c.localRoot
}

// CurrentSpan 返回最近激活且未关闭的 span，不存在时返回 nil。
//
// 在并发/异步场景中它不代表"正在执行的 span"：子 span 可能先于兄弟 span 关闭。
// 需要严格嵌套语义的调用方应自行维护 span 栈。
func (c *Context) CurrentSpan() Span {
	return c.active
}

// AddSpan 在本 Context 中激活 span。
//
// 无父 span 时 span 成为本地根，并一次性写入已有的来源和采样优先级。
// 无论是否为根，span 都成为当前 span，其 ID 覆盖 Context 的 trace/span ID。
// nil span 被忽略。
func (c *Context) AddSpan(s Span) {
	if s == nil {
		c.warn("xtracectx: AddSpan called with nil span")
		return
	}
	if c.diag != nil && c.hasTraceID && s.TraceID() != c.traceID {
		c.warn("xtracectx: AddSpan merges span from another trace",
			slog.String("context_trace_id", strconv.FormatUint(c.traceID, 10)),
			slog.String("span_trace_id", strconv.FormatUint(s.TraceID(), 10)))
	}

	if s.Parent() == nil {
		c.localRoot = s
		if c.hasOrigin {
			s.SetMeta(KeyOrigin, c.origin)
		}
		if c.hasPriority {
			s.SetMetric(KeySamplingPriority, float64(c.priority))
		}
	}
	c.setCurrent(s)
	s.SetTraceContext(c)
}

// CloseSpan 关闭 span 并将当前 span 恢复为其父 span。
//
// 关闭本地根 span 时清空根引用和 trace ID（链路在本地结束）。
// 非根 span 的关闭不会重置链路级字段。nil span 被忽略。
func (c *Context) CloseSpan(s Span) {
	if s == nil {
		c.warn("xtracectx: CloseSpan called with nil span")
		return
	}
	if c.diag != nil && s != c.active {
		c.warn("xtracectx: CloseSpan on a span that is not current",
			slog.String("span_id", strconv.FormatUint(s.SpanID(), 10)))
	}

	if c.localRoot != nil && s == c.localRoot {
		c.localRoot = nil
		c.traceID = 0
		c.hasTraceID = false
		c.rootClosed = true
	}
	c.setCurrent(s.Parent())
}

// setCurrent 切换当前 span，nil 时只清空 span ID
func (c *Context) setCurrent(s Span) {
	c.active = s
	if s == nil {
		c.activeSpanID = 0
		c.hasSpanID = false
		return
	}
	c.traceID = s.TraceID()
	c.hasTraceID = true
	c.activeSpanID = s.SpanID()
	c.hasSpanID = true
	c.rootClosed = false
}

func (c *Context) warn(msg string, attrs ...slog.Attr) {
	if c.diag == nil {
		return
	}
	c.diag.Warn(context.Background(), msg, attrs...)
}

// State 返回 Context 所处状态，见 [State]
func (c *Context) State() State {
	switch {
	case c.active != nil || c.localRoot != nil:
		return StateActive
	case c.rootClosed:
		return StateClosedRoot
	case c.hasTraceID || c.hasSpanID:
		return StatePropagating
	default:
		return StateEmpty
	}
}

// LogValue 实现 slog.LogValuer，只输出已设置的字段
func (c *Context) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 5)
	if c.hasTraceID {
		attrs = append(attrs, slog.String("trace_id", strconv.FormatUint(c.traceID, 10)))
	}
	if c.hasSpanID {
		attrs = append(attrs, slog.String("span_id", strconv.FormatUint(c.activeSpanID, 10)))
	}
	if c.hasPriority {
		attrs = append(attrs, slog.Int("sampling_priority", c.priority))
	}
	if c.hasOrigin {
		attrs = append(attrs, slog.String("origin", c.origin))
	}
	attrs = append(attrs, slog.String("state", c.State().String()))
	return slog.GroupValue(attrs...)
}

// String 返回调试用的单行表示
func (c *Context) String() string {
	return fmt.Sprintf("xtracectx.Context{trace_id=%s span_id=%s priority=%s origin=%s state=%s}",
		optUint(c.traceID, c.hasTraceID),
		optUint(c.activeSpanID, c.hasSpanID),
		optInt(c.priority, c.hasPriority),
		optString(c.origin, c.hasOrigin),
		c.State())
}

func optUint(v uint64, ok bool) string {
	if !ok {
		return "<none>"
	}
	return strconv.FormatUint(v, 10)
}

func optInt(v int, ok bool) string {
	if !ok {
		return "<none>"
	}
	return strconv.Itoa(v)
}

func optString(v string, ok bool) string {
	if !ok {
		return "<none>"
	}
	return strconv.Quote(v)
}
