package xspan

import "time"

type startConfig struct {
	parent    *Span
	idGen     IDGenerator
	startTime time.Time
	tags      map[string]any
}

// StartOption Start 的选项
type StartOption func(*startConfig)

// WithParent 指定父 span，nil 表示创建本地根
func WithParent(p *Span) StartOption {
	return func(c *startConfig) {
		c.parent = p
	}
}

// WithIDGenerator 指定 ID 生成器，如 xid.Generator.NextUint64
func WithIDGenerator(g IDGenerator) StartOption {
	return func(c *startConfig) {
		c.idGen = g
	}
}

// WithStartTime 指定开始时间，默认 time.Now()
func WithStartTime(t time.Time) StartOption {
	return func(c *startConfig) {
		c.startTime = t
	}
}

// WithTag 开始时写入标签，规则同 [Span.SetTag]
func WithTag(key string, value any) StartOption {
	return func(c *startConfig) {
		if c.tags == nil {
			c.tags = make(map[string]any)
		}
		c.tags[key] = value
	}
}
