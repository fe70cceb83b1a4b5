package xtrace

import (
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xtracekit/pkg/trace/xtracectx"
)

// W3C Trace Context 头
const (
	HeaderTraceparent = "traceparent"
	HeaderTracestate  = "tracestate"
)

const (
	// traceparentLen 00-{32}-{16}-{2}
	traceparentLen = 55

	// tracestateVendor tracestate 中本格式使用的成员 key
	tracestateVendor = "dd"

	flagSampled = 0x01
)

// traceparent 解析后的字段
type traceparent struct {
	traceIDHigh uint64
	traceIDLow  uint64
	spanID      uint64
	flags       byte
}

// parseTraceparent 按 W3C 前向兼容规则解析：
// ff 版本无效；00 版本必须恰好 55 字符；更高版本允许以 '-' 分隔的扩展字段。
func parseTraceparent(s string) (traceparent, error) {
	var tp traceparent
	if len(s) < traceparentLen || s[2] != '-' || s[35] != '-' || s[52] != '-' {
		return tp, fmt.Errorf("%w: %q", ErrMalformedTraceparent, s)
	}
	version := s[0:2]
	if !isHex(version) || version == "ff" {
		return tp, fmt.Errorf("%w: version %q", ErrMalformedTraceparent, version)
	}
	if version == "00" && len(s) != traceparentLen {
		return tp, fmt.Errorf("%w: trailing data for version 00", ErrMalformedTraceparent)
	}
	if len(s) > traceparentLen && s[traceparentLen] != '-' {
		return tp, fmt.Errorf("%w: %q", ErrMalformedTraceparent, s)
	}

	var err error
	if tp.traceIDHigh, err = parseHex64(s[3:19]); err != nil {
		return tp, fmt.Errorf("%w: %w", ErrMalformedTraceID, err)
	}
	if tp.traceIDLow, err = parseHex64(s[19:35]); err != nil {
		return tp, fmt.Errorf("%w: %w", ErrMalformedTraceID, err)
	}
	if tp.traceIDHigh == 0 && tp.traceIDLow == 0 {
		return tp, fmt.Errorf("%w: all-zero trace-id", ErrMalformedTraceID)
	}
	if tp.spanID, err = parseHex64(s[36:52]); err != nil {
		return tp, fmt.Errorf("%w: %w", ErrMalformedSpanID, err)
	}
	if tp.spanID == 0 {
		return tp, fmt.Errorf("%w: all-zero parent-id", ErrMalformedSpanID)
	}
	flags, err := parseHex64(s[53:55])
	if err != nil {
		return tp, fmt.Errorf("%w: flags %q", ErrMalformedTraceparent, s[53:55])
	}
	tp.flags = byte(flags)
	return tp, nil
}

// formatTraceparent 始终输出 00 版本、小写十六进制，高 64 位补零
func formatTraceparent(traceID, spanID uint64, sampled bool) string {
	flags := "00"
	if sampled {
		flags = "01"
	}
	return fmt.Sprintf("00-%016x%016x-%016x-%s", uint64(0), traceID, spanID, flags)
}

func parseHex64(s string) (uint64, error) {
	if !isHex(s) {
		return 0, fmt.Errorf("invalid hex %q", s)
	}
	return strconv.ParseUint(s, 16, 64)
}

// isHex 只接受小写十六进制，traceparent 不允许大写
func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// =============================================================================
// tracestate dd 成员
// =============================================================================

// ddState dd=s:<priority>;o:<origin>
type ddState struct {
	priority    int
	origin      string
	hasPriority bool
	hasOrigin   bool
}

// parseDDState 未知子字段忽略，s 无法解析时视为缺失
func parseDDState(v string) ddState {
	var st ddState
	for field := range strings.SplitSeq(v, ";") {
		k, val, ok := strings.Cut(field, ":")
		if !ok {
			continue
		}
		switch k {
		case "s":
			if p, err := strconv.Atoi(val); err == nil {
				st.priority, st.hasPriority = p, true
			}
		case "o":
			st.origin, st.hasOrigin = decodeOrigin(val), true
		}
	}
	return st
}

func formatDDState(tc *xtracectx.Context) string {
	var fields []string
	if p, ok := tc.SamplingPriority(); ok {
		fields = append(fields, "s:"+strconv.Itoa(p))
	}
	if o, ok := tc.Origin(); ok && o != "" {
		fields = append(fields, "o:"+encodeOrigin(o))
	}
	return strings.Join(fields, ";")
}

// encodeOrigin tracestate 值不允许 ',' '='，';' 是成员内分隔符
func encodeOrigin(o string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '=':
			return '~'
		case r == ',' || r == ';' || r < 0x20 || r > 0x7e:
			return '_'
		default:
			return r
		}
	}, o)
}

func decodeOrigin(o string) string {
	return strings.ReplaceAll(o, "~", "=")
}

// mergePriority 采样标志优先：标志与优先级符号不一致时按标志修正
func mergePriority(sampled bool, st ddState) int {
	switch {
	case !st.hasPriority && sampled:
		return xtracectx.PriorityAutoKeep
	case !st.hasPriority:
		return xtracectx.PriorityAutoReject
	case sampled && st.priority <= 0:
		return xtracectx.PriorityAutoKeep
	case !sampled && st.priority > 0:
		return xtracectx.PriorityAutoReject
	default:
		return st.priority
	}
}

// extractTraceContext 没有 traceparent 时 found 为 false
func extractTraceContext(c Carrier) (r remote, found bool, err error) {
	raw := c.Get(HeaderTraceparent)
	if raw == "" {
		return remote{}, false, nil
	}
	tp, err := parseTraceparent(raw)
	if err != nil {
		return remote{}, true, err
	}
	if tp.traceIDLow == 0 {
		return remote{}, true, fmt.Errorf("%w: lower 64 bits are zero", ErrMalformedTraceID)
	}

	var st ddState
	if ts, err := trace.ParseTraceState(c.Get(HeaderTracestate)); err == nil {
		st = parseDDState(ts.Get(tracestateVendor))
	}

	r = remote{
		traceID:     tp.traceIDLow,
		spanID:      tp.spanID,
		hasSpanID:   true,
		priority:    mergePriority(tp.flags&flagSampled != 0, st),
		hasPriority: true,
	}
	if st.hasOrigin {
		r.origin, r.hasOrigin = st.origin, true
	}
	return r, true, nil
}

// injectTraceContext 没有活跃 span ID 时不注入：traceparent 要求非零 parent-id。
//
// 载体中已有的 tracestate 会保留其他厂商成员，dd 成员移到最前。
func injectTraceContext(tc *xtracectx.Context, c Carrier) bool {
	spanID, ok := tc.ActiveSpanID()
	if !ok || spanID == 0 {
		return false
	}
	traceID, _ := tc.TraceID()
	p, _ := tc.SamplingPriority()
	c.Set(HeaderTraceparent, formatTraceparent(traceID, spanID, p > 0))

	ts, err := trace.ParseTraceState(c.Get(HeaderTracestate))
	if err != nil {
		ts = trace.TraceState{}
	}
	ts = ts.Delete(tracestateVendor)
	if dd := formatDDState(tc); dd != "" {
		if updated, err := ts.Insert(tracestateVendor, dd); err == nil {
			ts = updated
		}
	}
	if s := ts.String(); s != "" {
		c.Set(HeaderTracestate, s)
	}
	return true
}
