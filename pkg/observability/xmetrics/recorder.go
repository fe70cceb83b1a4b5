package xmetrics

import "context"

// Outcome 一次提取的结果
type Outcome string

const (
	// OutcomeFound 提取到链路信息
	OutcomeFound Outcome = "found"
	// OutcomeMissing 载体中没有该格式的链路信息
	OutcomeMissing Outcome = "missing"
	// OutcomeMalformed 链路信息格式错误
	OutcomeMalformed Outcome = "malformed"
)

// Recorder 传播指标记录器，实现必须并发安全
type Recorder interface {
	// RecordExtract 记录某个格式的一次提取结果
	RecordExtract(ctx context.Context, style string, outcome Outcome)

	// RecordInject 记录某个格式的一次注入
	RecordInject(ctx context.Context, style string)

	// RecordDecision 记录一次采样决策
	RecordDecision(ctx context.Context, priority int)
}

// Noop 不记录任何指标
type Noop struct{}

func (Noop) RecordExtract(context.Context, string, Outcome) {}

func (Noop) RecordInject(context.Context, string) {}

func (Noop) RecordDecision(context.Context, int) {}
