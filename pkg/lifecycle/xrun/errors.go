package xrun

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSignal 收到系统信号而退出，用 errors.Is 判断
	ErrSignal = errors.New("xrun: received signal")

	// ErrNilFunc 服务函数为 nil
	ErrNilFunc = errors.New("xrun: nil service func")

	// ErrNilServer HTTPServer 传入 nil
	ErrNilServer = errors.New("xrun: nil server")
)

// SignalError 携带触发退出的信号
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("xrun: received signal %v", e.Signal)
}

// Unwrap 使 errors.Is(err, ErrSignal) 成立
func (e *SignalError) Unwrap() error {
	return ErrSignal
}
