package xtrace_test

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/omeyang/xtracekit/pkg/observability/xlog"
)

func formatUint(v uint64) string { return strconv.FormatUint(v, 10) }

func hex16(v uint64) string { return fmt.Sprintf("%016x", v) }

// recordingLogger 记录 Warn 消息
type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) record(msg string) {
	l.mu.Lock()
	l.msgs = append(l.msgs, msg)
	l.mu.Unlock()
}

func (l *recordingLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.msgs...)
}

func (l *recordingLogger) Debug(context.Context, string, ...slog.Attr) {}
func (l *recordingLogger) Info(context.Context, string, ...slog.Attr)  {}
func (l *recordingLogger) Warn(_ context.Context, msg string, _ ...slog.Attr) {
	l.record(msg)
}
func (l *recordingLogger) Error(_ context.Context, msg string, _ ...slog.Attr) {
	l.record(msg)
}
func (l *recordingLogger) With(...slog.Attr) xlog.Logger { return l }
