package xid

import "time"

type options struct {
	machineID        func() (uint16, error)
	maxWaitDuration  time.Duration
	maxWaitSet       bool
	retryInterval    time.Duration
	retryIntervalSet bool
}

// Option 配置选项函数
type Option func(*options)

// WithMachineID 设置机器 ID 来源，默认 [DefaultMachineID]
func WithMachineID(fn func() (uint16, error)) Option {
	return func(o *options) {
		o.machineID = fn
	}
}

// WithMaxWaitDuration NextUint64WithRetry 的最大等待时间，默认 500ms，0 表示不等待
func WithMaxWaitDuration(d time.Duration) Option {
	return func(o *options) {
		o.maxWaitDuration = d
		o.maxWaitSet = true
	}
}

// WithRetryInterval NextUint64WithRetry 的重试间隔，默认 10ms
func WithRetryInterval(d time.Duration) Option {
	return func(o *options) {
		o.retryInterval = d
		o.retryIntervalSet = true
	}
}
