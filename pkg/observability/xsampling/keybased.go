package xsampling

import (
	"context"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/omeyang/xtracekit/pkg/context/xctx"
)

// KeyFunc 从 context 提取采样 key，空字符串表示无 key
type KeyFunc func(ctx context.Context) string

// TraceIDKey 以 context 中链路上下文的 trace_id（十进制）作为 key
func TraceIDKey(ctx context.Context) string {
	tc := xctx.TraceContext(ctx)
	if tc == nil {
		return ""
	}
	id, ok := tc.TraceID()
	if !ok {
		return ""
	}
	return strconv.FormatUint(id, 10)
}

// KeyBasedOption KeyBasedSampler 选项
type KeyBasedOption func(*KeyBasedSampler)

// WithOnEmptyKey 无 key 回退随机采样前的回调，用于发现传播断裂
func WithOnEmptyKey(fn func()) KeyBasedOption {
	return func(s *KeyBasedSampler) {
		s.onEmptyKey = fn
	}
}

// KeyBasedSampler 同一 key 在同一比率下决策恒定
type KeyBasedSampler struct {
	rate       float64
	keyFunc    KeyFunc
	onEmptyKey func()
}

// NewKeyBasedSampler 创建一致性采样器。
//
// keyFunc 返回空字符串时回退到随机采样，保持比率语义但失去一致性。
func NewKeyBasedSampler(rate float64, keyFunc KeyFunc, opts ...KeyBasedOption) (*KeyBasedSampler, error) {
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	if keyFunc == nil {
		return nil, ErrNilKeyFunc
	}
	s := &KeyBasedSampler{rate: rate, keyFunc: keyFunc}
	for _, opt := range opts {
		if opt == nil {
			return nil, ErrNilOption
		}
		opt(s)
	}
	return s, nil
}

func (s *KeyBasedSampler) ShouldSample(ctx context.Context) bool {
	if s.rate <= 0 {
		return false
	}
	if s.rate >= 1 {
		return true
	}

	var key string
	if ctx != nil {
		key = s.keyFunc(ctx)
	}
	if key == "" {
		if s.onEmptyKey != nil {
			s.onEmptyKey()
		}
		return randomFloat64() < s.rate
	}
	// rate < 1，normalized 恰为 1.0 时也不会通过
	normalized := float64(xxhash.Sum64String(key)) / float64(math.MaxUint64)
	return normalized < s.rate
}

// Rate 采样比率
func (s *KeyBasedSampler) Rate() float64 { return s.rate }

var _ Sampler = (*KeyBasedSampler)(nil)
