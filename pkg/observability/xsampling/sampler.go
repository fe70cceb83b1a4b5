package xsampling

import (
	"context"
	"fmt"
	"math"
)

// Sampler 采样策略，返回 true 表示保留
type Sampler interface {
	ShouldSample(ctx context.Context) bool
}

type alwaysSampler struct{}

func (alwaysSampler) ShouldSample(context.Context) bool { return true }

type neverSampler struct{}

func (neverSampler) ShouldSample(context.Context) bool { return false }

// Always 全部保留
func Always() Sampler { return alwaysSampler{} }

// Never 全部丢弃
func Never() Sampler { return neverSampler{} }

// RateSampler 按固定比率随机采样
type RateSampler struct {
	rate float64
}

// NewRateSampler rate 取值 [0.0, 1.0]
func NewRateSampler(rate float64) (*RateSampler, error) {
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	return &RateSampler{rate: rate}, nil
}

func (s *RateSampler) ShouldSample(context.Context) bool {
	switch {
	case s.rate <= 0:
		return false
	case s.rate >= 1:
		return true
	default:
		return randomFloat64() < s.rate
	}
}

// Rate 采样比率
func (s *RateSampler) Rate() float64 { return s.rate }

func validateRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidRate, rate)
	}
	return nil
}

var (
	_ Sampler = alwaysSampler{}
	_ Sampler = neverSampler{}
	_ Sampler = (*RateSampler)(nil)
)
