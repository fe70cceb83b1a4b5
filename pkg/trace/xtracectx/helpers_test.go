package xtracectx_test

import "github.com/omeyang/xtracekit/pkg/trace/xtracectx"

// testSpan 最小化的 Span 实现
type testSpan struct {
	traceID uint64
	spanID  uint64
	parent  *testSpan
	meta    map[string]string
	metrics map[string]float64
	tc      *xtracectx.Context
}

func newRoot(traceID, spanID uint64) *testSpan {
	return &testSpan{
		traceID: traceID,
		spanID:  spanID,
		meta:    map[string]string{},
		metrics: map[string]float64{},
	}
}

func (s *testSpan) child(spanID uint64) *testSpan {
	c := newRoot(s.traceID, spanID)
	c.parent = s
	return c
}

func (s *testSpan) TraceID() uint64 { return s.traceID }
func (s *testSpan) SpanID() uint64  { return s.spanID }

func (s *testSpan) Parent() xtracectx.Span {
	if s.parent == nil {
		return nil
	}
	return s.parent
}

func (s *testSpan) SetMeta(key, value string)           { s.meta[key] = value }
func (s *testSpan) SetMetric(key string, value float64) { s.metrics[key] = value }
func (s *testSpan) SetTraceContext(tc *xtracectx.Context) {
	s.tc = tc
}
