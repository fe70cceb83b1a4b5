package xspan

import (
	"crypto/rand"
	"encoding/binary"
)

// IDGenerator 生成 span/trace ID，返回错误时回退到随机 ID
type IDGenerator func() (uint64, error)

// RandomID 基于 crypto/rand 的 64 位非零 ID
func RandomID() uint64 {
	var b [8]byte
	for {
		// crypto/rand.Read 在 Go 1.24+ 不会返回错误
		_, _ = rand.Read(b[:])
		if id := binary.BigEndian.Uint64(b[:]); id != 0 {
			return id
		}
	}
}

func (g IDGenerator) next() uint64 {
	if g == nil {
		return RandomID()
	}
	id, err := g()
	if err != nil || id == 0 {
		return RandomID()
	}
	return id
}
