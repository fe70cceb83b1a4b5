package xid

import "errors"

var (
	// ErrNilGenerator 零值或 nil Generator
	ErrNilGenerator = errors.New("xid: nil generator (use NewGenerator to create)")

	// ErrInvalidConfig 配置无效，或 sonyflake 初始化失败
	ErrInvalidConfig = errors.New("xid: invalid config")

	// ErrOverTimeLimit 时间分量溢出，不可恢复
	ErrOverTimeLimit = errors.New("xid: time component overflow")

	// ErrClockBackwardTimeout 重试等待超时
	ErrClockBackwardTimeout = errors.New("xid: clock backward wait timeout")

	// ErrNilContext context 为 nil
	ErrNilContext = errors.New("xid: nil context")

	// ErrInvalidID ID 不是正数
	ErrInvalidID = errors.New("xid: invalid id")

	// ErrNoMachineID 所有机器 ID 来源都不可用
	ErrNoMachineID = errors.New("xid: no machine id source available")
)
