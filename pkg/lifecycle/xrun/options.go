package xrun

import (
	"os"
	"syscall"

	"github.com/omeyang/xtracekit/pkg/observability/xlog"
)

// Option Group 选项
type Option func(*options)

type options struct {
	logger          xlog.Logger
	name            string
	signals         []os.Signal
	noSignalHandler bool
}

func defaultOptions() *options {
	return &options{name: "xrun"}
}

func (o *options) log() xlog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return xlog.Default()
}

// WithLogger 生命周期日志，默认 xlog 全局 Logger
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName 日志中的 group 名称
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithSignals Run 监听的信号，默认 SIGINT、SIGTERM
func WithSignals(signals ...os.Signal) Option {
	copied := append([]os.Signal(nil), signals...)
	return func(o *options) {
		o.signals = copied
	}
}

// WithoutSignalHandler Run 不监听信号，由调用方通过 ctx 控制退出
func WithoutSignalHandler() Option {
	return func(o *options) {
		o.noSignalHandler = true
	}
}

func defaultSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM}
}
