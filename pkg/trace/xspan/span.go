package xspan

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/omeyang/xtracekit/pkg/context/xctx"
	"github.com/omeyang/xtracekit/pkg/trace/xtracectx"
)

var _ xtracectx.Span = (*Span)(nil)

// Span 一次计时操作
type Span struct {
	name     string
	traceID  uint64
	spanID   uint64
	parentID uint64
	parent   *Span
	start    time.Time

	mu       sync.RWMutex
	meta     map[string]string
	metrics  map[string]float64
	duration time.Duration
	finished bool
	tc       *xtracectx.Context
}

// Start 创建 span 并在 tc 中激活。
//
// 没有父 span 时创建本地根：链路 ID 沿用 tc 中从上游恢复的值，否则新生成；
// 上游的 span ID 记为 ParentID。tc 为 nil 时 span 不关联任何链路上下文。
func Start(tc *xtracectx.Context, name string, opts ...StartOption) *Span {
	cfg := startConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.startTime.IsZero() {
		cfg.startTime = time.Now()
	}

	s := &Span{
		name:    name,
		spanID:  cfg.idGen.next(),
		parent:  cfg.parent,
		start:   cfg.startTime,
		meta:    make(map[string]string),
		metrics: make(map[string]float64),
	}
	switch {
	case cfg.parent != nil:
		s.traceID = cfg.parent.traceID
		s.parentID = cfg.parent.spanID
	case tc != nil:
		if id, ok := tc.TraceID(); ok {
			s.traceID = id
		}
		if id, ok := tc.ActiveSpanID(); ok && tc.CurrentSpan() == nil {
			s.parentID = id
		}
	}
	if s.traceID == 0 {
		s.traceID = cfg.idGen.next()
	}
	for k, v := range cfg.tags {
		s.SetTag(k, v)
	}

	if tc != nil {
		tc.AddSpan(s)
	}
	return s
}

// StartFromContext 在 ctx 携带的链路上下文中开始 span，没有则新建一个放入返回的 ctx。
//
// 链路上下文的活跃 span 是 *Span 时作为父 span。
func StartFromContext(ctx context.Context, name string, opts ...StartOption) (*Span, context.Context, error) {
	if ctx == nil {
		return nil, nil, ErrNilContext
	}
	ctx, tc, err := xctx.EnsureTraceContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	if p, ok := tc.CurrentSpan().(*Span); ok {
		opts = append([]StartOption{WithParent(p)}, opts...)
	}
	return Start(tc, name, opts...), ctx, nil
}

// Finish 结束 span 并从激活它的链路上下文中关闭，重复调用无效果
func (s *Span) Finish() {
	s.FinishAt(time.Now())
}

// FinishAt 以指定时间结束 span
func (s *Span) FinishAt(t time.Time) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	s.duration = max(t.Sub(s.start), 0)
	tc := s.tc
	s.mu.Unlock()

	if tc != nil {
		tc.CloseSpan(s)
	}
}

// =============================================================================
// xtracectx.Span
// =============================================================================

func (s *Span) TraceID() uint64 { return s.traceID }

func (s *Span) SpanID() uint64 { return s.spanID }

// Parent 根 span 返回无类型 nil
func (s *Span) Parent() xtracectx.Span {
	if s.parent == nil {
		return nil
	}
	return s.parent
}

func (s *Span) SetMeta(key, value string) {
	s.mu.Lock()
	s.meta[key] = value
	s.mu.Unlock()
}

func (s *Span) SetMetric(key string, value float64) {
	s.mu.Lock()
	s.metrics[key] = value
	s.mu.Unlock()
}

func (s *Span) SetTraceContext(tc *xtracectx.Context) {
	s.mu.Lock()
	s.tc = tc
	s.mu.Unlock()
}

// =============================================================================
// 访问器
// =============================================================================

// Name 操作名
func (s *Span) Name() string { return s.name }

// ParentID 父 span ID；本地根为上游 span ID，没有时为 0
func (s *Span) ParentID() uint64 { return s.parentID }

// StartTime 开始时间
func (s *Span) StartTime() time.Time { return s.start }

// TraceContext 激活该 span 的链路上下文
func (s *Span) TraceContext() *xtracectx.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tc
}

// SetTag 数值类型写入 metrics，其余按 fmt.Sprint 写入 meta
func (s *Span) SetTag(key string, value any) {
	switch v := value.(type) {
	case float64:
		s.SetMetric(key, v)
	case float32:
		s.SetMetric(key, float64(v))
	case int:
		s.SetMetric(key, float64(v))
	case int32:
		s.SetMetric(key, float64(v))
	case int64:
		s.SetMetric(key, float64(v))
	case uint32:
		s.SetMetric(key, float64(v))
	case uint64:
		s.SetMetric(key, float64(v))
	case string:
		s.SetMeta(key, v)
	case bool:
		s.SetMeta(key, strconv.FormatBool(v))
	default:
		s.SetMeta(key, fmt.Sprint(v))
	}
}

// Meta 读取字符串标签
func (s *Span) Meta(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.meta[key]
	return v, ok
}

// Metric 读取数值标签
func (s *Span) Metric(key string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.metrics[key]
	return v, ok
}

// Finished 是否已结束
func (s *Span) Finished() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finished
}

// Duration 结束前为 0
func (s *Span) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.duration
}

// LogValue 实现 slog.LogValuer
func (s *Span) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", s.name),
		slog.String("trace_id", strconv.FormatUint(s.traceID, 10)),
		slog.String("span_id", strconv.FormatUint(s.spanID, 10)),
		slog.String("parent_id", strconv.FormatUint(s.parentID, 10)),
		slog.Bool("finished", s.Finished()),
	)
}
