package cipher

import (
	"encoding/binary"
	"time"

	"github.com/lk2023060901/srtp-garden-go/pkg/metrics"
)

// BitsPerSecond 测量实例的加密吞吐并返回比特每秒。
// 每一轮以轮次序号作为 nonce 的低 32 位，保证轮与轮之间 nonce 不同。
// 任何一步失败、轮数为零或计时器分辨率不足时都返回 0。
func BitsPerSecond(c *Cipher, payloadLen, trials int) uint64 {
	if c == nil || payloadLen <= 0 || trials <= 0 {
		return 0
	}
	if err := c.valid(); err != nil {
		return 0
	}

	buf := make([]byte, payloadLen+MaxTagLen)
	var nonce [16]byte
	var aad [4]byte
	aead := c.AEAD()

	start := time.Now()
	for i := 0; i < trials; i++ {
		binary.BigEndian.PutUint32(nonce[12:], uint32(i))
		if err := c.SetIV(nonce[:], DirectionEncrypt); err != nil {
			return 0
		}
		if aead {
			if err := c.SetAAD(aad[:]); err != nil {
				return 0
			}
		}
		n, err := c.Encrypt(buf[:payloadLen], buf[:payloadLen])
		if err != nil {
			return 0
		}
		if aead {
			if _, err := c.GetTag(buf[n:]); err != nil {
				return 0
			}
		}
	}
	elapsed := time.Since(start)
	if elapsed <= 0 {
		return 0
	}

	bits := float64(trials) * 8 * float64(payloadLen)
	bps := uint64(bits / elapsed.Seconds())
	metrics.CipherThroughputBits.WithLabelValues(c.Algorithm().String()).Set(float64(bps))
	return bps
}
