// Package testrand 提供一个可复现的伪随机源，仅服务于算法自检和测试。
//
// 实现是一个 64 位线性同余生成器，输出没有任何密码学强度，
// 严禁用于生产密钥、IV 或其他安全敏感用途。
package testrand

import (
	"go.uber.org/atomic"
)

const (
	lcgMultiplier = 6364136223846793005
	lcgIncrement  = 1442695040888963407
	defaultSeed   = 0x5eed5eed5eed5eed
)

var state = atomic.NewUint64(defaultSeed)

// Seed 重置生成器状态，使序列可复现。
func Seed(v uint64) {
	state.Store(v)
}

func next() uint64 {
	for {
		old := state.Load()
		neu := old*lcgMultiplier + lcgIncrement
		if state.CompareAndSwap(old, neu) {
			return neu
		}
	}
}

// Uint32 返回下一个 32 位伪随机值，取状态的高 32 位。
func Uint32() uint32 {
	return uint32(next() >> 32)
}

// Intn 返回 [0, n) 内的伪随机值；n <= 0 时返回 0。
func Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(Uint32() % uint32(n))
}

// Bytes 用伪随机字节填满 dst。
func Bytes(dst []byte) {
	for i := range dst {
		dst[i] = byte(next() >> 56)
	}
}
