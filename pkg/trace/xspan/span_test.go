package xspan_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xtracekit/pkg/context/xctx"
	"github.com/omeyang/xtracekit/pkg/trace/xspan"
	"github.com/omeyang/xtracekit/pkg/trace/xtracectx"
	"github.com/omeyang/xtracekit/pkg/util/xid"
)

func TestStart_RootAndChild(t *testing.T) {
	tc := xtracectx.New()

	root := xspan.Start(tc, "root")
	assert.Nil(t, root.Parent())
	assert.NotZero(t, root.TraceID())
	assert.NotZero(t, root.SpanID())
	assert.Same(t, root, tc.CurrentRootSpan())
	assert.Same(t, tc, root.TraceContext())

	child := xspan.Start(tc, "child", xspan.WithParent(root))
	assert.Same(t, root, child.Parent())
	assert.Equal(t, root.TraceID(), child.TraceID())
	assert.Equal(t, root.SpanID(), child.ParentID())
	assert.Same(t, child, tc.CurrentSpan())

	child.Finish()
	assert.Same(t, root, tc.CurrentSpan())
	id, ok := tc.TraceID()
	assert.True(t, ok)
	assert.Equal(t, root.TraceID(), id)

	root.Finish()
	assert.Nil(t, tc.CurrentSpan())
	assert.Nil(t, tc.CurrentRootSpan())
	_, ok = tc.TraceID()
	assert.False(t, ok)
	assert.Equal(t, xtracectx.StateClosedRoot, tc.State())
}

func TestStart_RemoteSeed(t *testing.T) {
	tc := xtracectx.New(
		xtracectx.WithTraceID(12345),
		xtracectx.WithSpanID(678),
		xtracectx.WithSamplingPriority(xtracectx.PriorityUserKeep),
		xtracectx.WithOrigin("synthetics"),
	)

	s := xspan.Start(tc, "server")
	assert.Equal(t, uint64(12345), s.TraceID())
	assert.Equal(t, uint64(678), s.ParentID())
	assert.Nil(t, s.Parent(), "远端父 span 不是本地对象，新 span 是本地根")

	p, ok := s.Metric(xtracectx.KeySamplingPriority)
	require.True(t, ok)
	assert.Equal(t, float64(xtracectx.PriorityUserKeep), p)
	o, ok := s.Meta(xtracectx.KeyOrigin)
	require.True(t, ok)
	assert.Equal(t, "synthetics", o)
}

func TestFinish_Idempotent(t *testing.T) {
	tc := xtracectx.New()
	start := time.Now().Add(-time.Second)
	root := xspan.Start(tc, "root", xspan.WithStartTime(start))
	child := xspan.Start(tc, "child", xspan.WithParent(root))

	root.Finish()
	assert.True(t, root.Finished())
	assert.GreaterOrEqual(t, root.Duration(), time.Second)

	// 重复 Finish 不再驱动链路上下文
	tc.AddSpan(child)
	root.Finish()
	assert.Same(t, child, tc.CurrentSpan())
}

func TestFinishAt_ClampsNegative(t *testing.T) {
	s := xspan.Start(nil, "detached")
	s.FinishAt(s.StartTime().Add(-time.Minute))
	assert.Zero(t, s.Duration())
	assert.Nil(t, s.TraceContext())
}

func TestSetTag(t *testing.T) {
	s := xspan.Start(nil, "tags", xspan.WithTag("component", "http"), xspan.WithTag("retries", 3))

	tests := []struct {
		key    string
		value  any
		meta   string
		metric float64
		isMeta bool
	}{
		{"f64", 1.5, "", 1.5, false},
		{"f32", float32(2), "", 2, false},
		{"i32", int32(4), "", 4, false},
		{"i64", int64(5), "", 5, false},
		{"u32", uint32(6), "", 6, false},
		{"u64", uint64(7), "", 7, false},
		{"str", "v", "v", 0, true},
		{"bool", true, "true", 0, true},
		{"dur", time.Second, "1s", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s.SetTag(tt.key, tt.value)
			if tt.isMeta {
				got, ok := s.Meta(tt.key)
				require.True(t, ok)
				assert.Equal(t, tt.meta, got)
				return
			}
			got, ok := s.Metric(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.metric, got)
		})
	}

	v, _ := s.Meta("component")
	assert.Equal(t, "http", v)
	n, _ := s.Metric("retries")
	assert.Equal(t, float64(3), n)
}

func TestSetTag_Concurrent(t *testing.T) {
	s := xspan.Start(nil, "concurrent")
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SetTag("k", i)
			_, _ = s.Metric("k")
		}()
	}
	wg.Wait()
	_, ok := s.Metric("k")
	assert.True(t, ok)
}

func TestWithIDGenerator(t *testing.T) {
	gen, err := xid.NewGenerator(xid.WithMachineID(func() (uint16, error) { return 7, nil }))
	require.NoError(t, err)

	s := xspan.Start(nil, "sonyflake", xspan.WithIDGenerator(gen.NextUint64))
	c, err := xid.Decompose(s.SpanID())
	require.NoError(t, err)
	assert.Equal(t, uint64(7), c.Machine)

	failing := xspan.Start(nil, "fallback", xspan.WithIDGenerator(func() (uint64, error) {
		return 0, errors.New("exhausted")
	}))
	assert.NotZero(t, failing.SpanID())
	assert.NotZero(t, failing.TraceID())
}

func TestStartFromContext(t *testing.T) {
	var nilCtx context.Context
	_, _, err := xspan.StartFromContext(nilCtx, "x")
	assert.ErrorIs(t, err, xspan.ErrNilContext)

	root, ctx, err := xspan.StartFromContext(context.Background(), "root")
	require.NoError(t, err)
	tc := xctx.TraceContext(ctx)
	require.NotNil(t, tc)
	assert.Same(t, root, tc.CurrentRootSpan())

	child, ctx2, err := xspan.StartFromContext(ctx, "child")
	require.NoError(t, err)
	assert.Equal(t, ctx, ctx2)
	assert.Same(t, root, child.Parent())

	child.Finish()
	root.Finish()
	assert.Equal(t, xtracectx.StateClosedRoot, tc.State())
}
