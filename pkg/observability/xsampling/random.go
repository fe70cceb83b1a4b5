package xsampling

import (
	"crypto/rand"
	"encoding/binary"
)

const floatScale = 1.0 / (1 << 53)

// randomFloat64 [0.0, 1.0) 均匀分布
func randomFloat64() float64 {
	var buf [8]byte
	// crypto/rand.Read 在 Go 1.24+ 不会返回错误
	_, _ = rand.Read(buf[:])
	return float64(binary.LittleEndian.Uint64(buf[:])>>11) * floatScale
}
