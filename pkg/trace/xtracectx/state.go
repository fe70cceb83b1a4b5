package xtracectx

import "strconv"

// State Context 的状态。
//
// 迁移关系：
//
//	New            -> StateEmpty | StatePropagating
//	AddSpan(root)  -> StateActive（建立本地根）
//	AddSpan(child) -> StateActive（当前 span 变化，根不变）
//	CloseSpan(非根) -> StateActive（父 span 成为当前）
//	CloseSpan(根)   -> StateClosedRoot
type State int

const (
	// StateEmpty 无任何 ID，全新的本地链路
	StateEmpty State = iota
	// StatePropagating 只有从上游继承的 ID，本地还没有 span
	StatePropagating
	// StateActive 存在本地根 span 或当前 span
	StateActive
	// StateClosedRoot 本地根 span 已关闭，trace ID 已清空
	StateClosedRoot
)

// String 返回状态名
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePropagating:
		return "propagating"
	case StateActive:
		return "active"
	case StateClosedRoot:
		return "closed-root"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}
