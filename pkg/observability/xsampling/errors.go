package xsampling

import "errors"

var (
	// ErrInvalidRate 采样比率不在 [0.0, 1.0]
	ErrInvalidRate = errors.New("xsampling: rate must be in [0.0, 1.0]")

	// ErrNilKeyFunc KeyBasedSampler 的 keyFunc 为 nil
	ErrNilKeyFunc = errors.New("xsampling: keyFunc must not be nil")

	// ErrNilOption 传入了 nil 选项
	ErrNilOption = errors.New("xsampling: nil option")
)
