package xtrace

import (
	"fmt"
	"strconv"

	"github.com/omeyang/xtracekit/pkg/trace/xtracectx"
)

// Datadog 头，全部小写以兼容 gRPC metadata
const (
	HeaderDatadogTraceID          = "x-datadog-trace-id"
	HeaderDatadogParentID         = "x-datadog-parent-id"
	HeaderDatadogSamplingPriority = "x-datadog-sampling-priority"
	HeaderDatadogOrigin           = "x-datadog-origin"
)

// remote 从载体解析出的上游链路信息
type remote struct {
	traceID     uint64
	spanID      uint64
	priority    int
	origin      string
	hasSpanID   bool
	hasPriority bool
	hasOrigin   bool
}

func (r remote) options() []xtracectx.Option {
	opts := []xtracectx.Option{xtracectx.WithTraceID(r.traceID)}
	if r.hasSpanID {
		opts = append(opts, xtracectx.WithSpanID(r.spanID))
	}
	if r.hasPriority {
		opts = append(opts, xtracectx.WithSamplingPriority(r.priority))
	}
	if r.hasOrigin {
		opts = append(opts, xtracectx.WithOrigin(r.origin))
	}
	return opts
}

// extractDatadog 没有 trace-id 头时 found 为 false
func extractDatadog(c Carrier) (r remote, found bool, err error) {
	raw := c.Get(HeaderDatadogTraceID)
	if raw == "" {
		return remote{}, false, nil
	}
	r.traceID, err = strconv.ParseUint(raw, 10, 64)
	if err != nil || r.traceID == 0 {
		return remote{}, true, fmt.Errorf("%w: %s=%q", ErrMalformedTraceID, HeaderDatadogTraceID, raw)
	}

	if v := c.Get(HeaderDatadogParentID); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return remote{}, true, fmt.Errorf("%w: %s=%q", ErrMalformedSpanID, HeaderDatadogParentID, v)
		}
		// parent-id 为 0 表示上游没有活跃 span
		if id != 0 {
			r.spanID, r.hasSpanID = id, true
		}
	}
	if v := c.Get(HeaderDatadogSamplingPriority); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return remote{}, true, fmt.Errorf("%w: %s=%q", ErrMalformedPriority, HeaderDatadogSamplingPriority, v)
		}
		r.priority, r.hasPriority = p, true
	}
	if v := c.Get(HeaderDatadogOrigin); v != "" {
		r.origin, r.hasOrigin = v, true
	}
	return r, true, nil
}

func injectDatadog(tc *xtracectx.Context, c Carrier) bool {
	traceID, _ := tc.TraceID()
	c.Set(HeaderDatadogTraceID, strconv.FormatUint(traceID, 10))
	if id, ok := tc.ActiveSpanID(); ok {
		c.Set(HeaderDatadogParentID, strconv.FormatUint(id, 10))
	}
	if p, ok := tc.SamplingPriority(); ok {
		c.Set(HeaderDatadogSamplingPriority, strconv.Itoa(p))
	}
	if o, ok := tc.Origin(); ok && o != "" {
		c.Set(HeaderDatadogOrigin, o)
	}
	return true
}
