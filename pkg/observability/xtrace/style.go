package xtrace

import (
	"fmt"
	"strings"
)

// Style 传播格式
type Style string

const (
	// StyleDatadog x-datadog-* 头
	StyleDatadog Style = "datadog"

	// StyleTraceContext W3C traceparent / tracestate
	StyleTraceContext Style = "tracecontext"
)

// DefaultStyles 默认先 Datadog 后 W3C
var DefaultStyles = []Style{StyleDatadog, StyleTraceContext}

func (s Style) String() string { return string(s) }

// ParseStyle 大小写不敏感，接受 "w3c" 作为 tracecontext 别名
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "datadog":
		return StyleDatadog, nil
	case "tracecontext", "w3c":
		return StyleTraceContext, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, s)
	}
}

// ParseStyles 解析格式列表，去重并保持顺序
func ParseStyles(names []string) ([]Style, error) {
	styles := make([]Style, 0, len(names))
	seen := make(map[Style]bool, len(names))
	for _, name := range names {
		st, err := ParseStyle(name)
		if err != nil {
			return nil, err
		}
		if seen[st] {
			continue
		}
		seen[st] = true
		styles = append(styles, st)
	}
	if len(styles) == 0 {
		return nil, ErrNoStyles
	}
	return styles, nil
}
