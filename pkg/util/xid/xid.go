package xid

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/sonyflake/v2"
)

const (
	// DefaultMaxWaitDuration 默认最大等待时间
	DefaultMaxWaitDuration = 500 * time.Millisecond

	// DefaultRetryInterval 默认重试间隔，与 sonyflake 时间精度一致
	DefaultRetryInterval = 10 * time.Millisecond
)

// Sonyflake v2 固定位布局
const (
	machineBits  = 16
	sequenceBits = 8
	machineMask  = (1 << machineBits) - 1
	sequenceMask = (1 << sequenceBits) - 1
)

// Components ID 分解结果
type Components struct {
	ID       uint64
	Time     uint64
	Sequence uint64
	Machine  uint64
}

// Generator 并发安全的 ID 生成器
type Generator struct {
	maxWaitDuration time.Duration
	retryInterval   time.Duration
	// generateID 默认 sf.NextID，测试中可替换
	generateID func() (int64, error)
}

// NewGenerator 创建生成器，未指定机器 ID 时使用 DefaultMachineID
func NewGenerator(opts ...Option) (*Generator, error) {
	cfg := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.maxWaitDuration < 0 {
		return nil, fmt.Errorf("%w: max wait duration must be non-negative, got %s", ErrInvalidConfig, cfg.maxWaitDuration)
	}
	if cfg.retryInterval < 0 {
		return nil, fmt.Errorf("%w: retry interval must be non-negative, got %s", ErrInvalidConfig, cfg.retryInterval)
	}

	machineIDFn := cfg.machineID
	if machineIDFn == nil {
		machineIDFn = DefaultMachineID
	}
	sf, err := sonyflake.New(sonyflake.Settings{
		MachineID: func() (int, error) {
			id, err := machineIDFn()
			return int(id), err
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	g := &Generator{
		maxWaitDuration: DefaultMaxWaitDuration,
		retryInterval:   DefaultRetryInterval,
		generateID:      sf.NextID,
	}
	if cfg.maxWaitSet {
		g.maxWaitDuration = cfg.maxWaitDuration
	}
	if cfg.retryIntervalSet {
		g.retryInterval = cfg.retryInterval
	}
	return g, nil
}

func (g *Generator) validate() error {
	if g == nil || g.generateID == nil {
		return ErrNilGenerator
	}
	return nil
}

func (g *Generator) next() (uint64, error) {
	id, err := g.generateID()
	if err != nil {
		if errors.Is(err, sonyflake.ErrOverTimeLimit) {
			return 0, fmt.Errorf("%w: %w", ErrOverTimeLimit, err)
		}
		return 0, err
	}
	return uint64(id), nil
}

// NextUint64 生成下一个 ID，恒为正数
func (g *Generator) NextUint64() (uint64, error) {
	if err := g.validate(); err != nil {
		return 0, err
	}
	return g.next()
}

// NextUint64WithRetry 生成下一个 ID，可重试错误在 maxWaitDuration 内按间隔重试。
//
// ErrOverTimeLimit 立即返回；等待期间响应 ctx 取消。
func (g *Generator) NextUint64WithRetry(ctx context.Context) (uint64, error) {
	if err := g.validate(); err != nil {
		return 0, err
	}
	if ctx == nil {
		return 0, ErrNilContext
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	id, err := g.next()
	if err == nil {
		return id, nil
	}

	deadline := time.Now().Add(g.maxWaitDuration)
	timer := time.NewTimer(0)
	<-timer.C
	defer timer.Stop()

	for {
		if errors.Is(err, ErrOverTimeLimit) {
			return 0, err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, fmt.Errorf("%w: %w", ErrClockBackwardTimeout, err)
		}
		timer.Reset(min(g.retryInterval, remaining))
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-timer.C:
		}
		if id, err = g.next(); err == nil {
			return id, nil
		}
	}
}

// Decompose 按位布局分解 ID，纯函数
func Decompose(id uint64) (Components, error) {
	if id == 0 || id>>63 != 0 {
		return Components{}, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return Components{
		ID:       id,
		Machine:  id & machineMask,
		Sequence: (id >> machineBits) & sequenceMask,
		Time:     id >> (machineBits + sequenceBits),
	}, nil
}
