package cipher

import (
	"bytes"
	"encoding/hex"

	"go.uber.org/zap"

	"github.com/lk2023060901/srtp-garden-go/internal/crypto/testrand"
	"github.com/lk2023060901/srtp-garden-go/pkg/log"
	"github.com/lk2023060901/srtp-garden-go/pkg/util/merr"
)

const (
	// defaultScratchCapacity 是自检工作缓冲的容量，任何用例的密文加标签不得超出。
	defaultScratchCapacity = 128
	// defaultRandTrials 是已知答案测试之后追加的随机往返次数。
	defaultRandTrials = 128
	// defaultRandHeadroom 为随机明文长度预留的上界余量，保证标签不越界。
	defaultRandHeadroom = 64
	// defaultMaxKeyLen 是随机阶段可生成的最大密钥长度。
	defaultMaxKeyLen = 64
)

// SelfTestConfig 控制一次自检的规模。零值字段取默认值。
type SelfTestConfig struct {
	// ScratchCapacity 为工作缓冲容量，超出它的用例以 ErrBadParameter 拒绝。
	ScratchCapacity int
	// RandTrials 为随机往返轮数，0 取默认值；负数表示跳过随机阶段。
	RandTrials int
	// RandHeadroom 为随机明文长度的上界余量。
	RandHeadroom int
	// MaxKeyLen 为随机阶段允许的最大密钥长度。
	MaxKeyLen int
	// Debug 打开逐用例的十六进制输出，仅用于排查向量失配。
	Debug bool
}

// DefaultSelfTestConfig 返回与内置向量匹配的默认规模。
func DefaultSelfTestConfig() SelfTestConfig {
	return SelfTestConfig{
		ScratchCapacity: defaultScratchCapacity,
		RandTrials:      defaultRandTrials,
		RandHeadroom:    defaultRandHeadroom,
		MaxKeyLen:       defaultMaxKeyLen,
	}
}

func (cfg SelfTestConfig) normalized() SelfTestConfig {
	def := DefaultSelfTestConfig()
	if cfg.ScratchCapacity <= 0 {
		cfg.ScratchCapacity = def.ScratchCapacity
	}
	if cfg.RandTrials == 0 {
		cfg.RandTrials = def.RandTrials
	}
	if cfg.RandHeadroom <= 0 {
		cfg.RandHeadroom = def.RandHeadroom
	}
	if cfg.MaxKeyLen <= 0 {
		cfg.MaxKeyLen = def.MaxKeyLen
	}
	return cfg
}

// SelfTest 以描述符内置的向量做一致性验证。
func (t *Type) SelfTest(cfg SelfTestConfig) error {
	if t == nil {
		return merr.WrapErrBadParameter("cipher type is nil")
	}
	return TypeTest(t, t.TestVectors, cfg)
}

// TypeTest 用给定向量验证描述符：先逐条做双向已知答案测试，
// 再以首条向量的尺寸做随机往返。空向量集无法证明任何事，
// 返回 ErrCannotVerify 而不是静默通过。
func TypeTest(t *Type, vectors []TestVector, cfg SelfTestConfig) error {
	if t == nil || t.Alloc == nil {
		return merr.WrapErrBadParameter("cipher type has no allocator")
	}
	if len(vectors) == 0 {
		return merr.WrapErrCannotVerify(t.Description)
	}
	cfg = cfg.normalized()
	logger := log.With(log.FieldModule("cipher"), log.FieldAlgorithm(t.Algorithm.String()))

	for i := range vectors {
		if err := runKnownAnswerCase(t, &vectors[i], i, cfg, logger); err != nil {
			return err
		}
	}
	if cfg.RandTrials < 0 {
		return nil
	}
	return runRandomRoundTrips(t, &vectors[0], cfg, logger)
}

// runKnownAnswerCase 对单条向量做一次加密方向和一次解密方向的验证，
// 两个方向之间重新初始化实例，确保 Init 的重置语义被覆盖。
func runKnownAnswerCase(t *Type, v *TestVector, caseNum int, cfg SelfTestConfig, logger *zap.Logger) error {
	if err := v.Validate(); err != nil {
		return merr.WrapErrVectorInvalid(caseNum, err.Error())
	}
	if len(v.Ciphertext) > cfg.ScratchCapacity {
		return merr.WrapErrParameterOutOfCapacity("ciphertext", len(v.Ciphertext), cfg.ScratchCapacity)
	}

	c, err := AllocCipher(t, len(v.Key), v.TagLen)
	if err != nil {
		return err
	}

	buf := make([]byte, cfg.ScratchCapacity)

	err = func() error {
		// 加密方向。
		if err := c.Init(v.Key); err != nil {
			return err
		}
		if err := c.SetIV(v.IV, DirectionEncrypt); err != nil {
			return err
		}
		if c.AEAD() {
			if err := c.SetAAD(v.AAD); err != nil {
				return err
			}
		}
		copy(buf, v.Plaintext)
		n, err := c.Encrypt(buf[:len(v.Plaintext)], buf[:len(v.Plaintext)])
		if err != nil {
			return err
		}
		if c.AEAD() {
			tagN, err := c.GetTag(buf[n:])
			if err != nil {
				return err
			}
			n += tagN
		}
		if cfg.Debug {
			logger.Debug("known answer encrypt",
				log.FieldCase(caseNum),
				zap.String("iv", hex.EncodeToString(v.IV)),
				zap.String("aad", hex.EncodeToString(v.AAD)),
				zap.String("plaintext", hex.EncodeToString(v.Plaintext)),
				zap.String("got", hex.EncodeToString(buf[:n])),
				zap.String("want", hex.EncodeToString(v.Ciphertext)))
		}
		if err := compareCase(caseNum, buf[:n], v.Ciphertext); err != nil {
			return err
		}

		// 解密方向，重新初始化后进行。
		if err := c.Init(v.Key); err != nil {
			return err
		}
		if err := c.SetIV(v.IV, DirectionDecrypt); err != nil {
			return err
		}
		if c.AEAD() {
			if err := c.SetAAD(v.AAD); err != nil {
				return err
			}
		}
		copy(buf, v.Ciphertext)
		n, err = c.Decrypt(buf[:len(v.Ciphertext)], buf[:len(v.Ciphertext)])
		if err != nil {
			return err
		}
		if cfg.Debug {
			logger.Debug("known answer decrypt",
				log.FieldCase(caseNum),
				zap.String("got", hex.EncodeToString(buf[:n])),
				zap.String("want", hex.EncodeToString(v.Plaintext)))
		}
		return compareCase(caseNum, buf[:n], v.Plaintext)
	}()

	if err != nil {
		_ = c.Dealloc()
		return err
	}
	return c.Dealloc()
}

// compareCase 对比实际输出与期望值，失配时报告用例编号和首个
// 不一致的字节偏移；长度不一致记为长度失配。
func compareCase(caseNum int, got, want []byte) error {
	if len(got) != len(want) {
		return merr.WrapErrAlgorithmFailure(caseNum, -1)
	}
	if bytes.Equal(got, want) {
		return nil
	}
	for i := range got {
		if got[i] != want[i] {
			return merr.WrapErrAlgorithmFailure(caseNum, i)
		}
	}
	return nil
}

// runRandomRoundTrips 以首条向量的 key/tag 尺寸跑随机往返：
// 随机密钥、随机 IV、随机长度的随机明文，加密后换方向解密，
// 结果必须还原为原始明文。IV 在两个方向上使用同一份随机值。
func runRandomRoundTrips(t *Type, ref *TestVector, cfg SelfTestConfig, logger *zap.Logger) error {
	if len(ref.Key) > cfg.MaxKeyLen {
		return merr.WrapErrCannotVerify("reference key exceeds random trial key capacity")
	}

	c, err := AllocCipher(t, len(ref.Key), ref.TagLen)
	if err != nil {
		return err
	}

	buf := make([]byte, cfg.ScratchCapacity)
	plain := make([]byte, cfg.ScratchCapacity)
	key := make([]byte, len(ref.Key))
	iv := make([]byte, MaxIVLen)
	maxPlainLen := cfg.ScratchCapacity - cfg.RandHeadroom

	err = func() error {
		for trial := 0; trial < cfg.RandTrials; trial++ {
			plainLen := testrand.Intn(maxPlainLen)
			testrand.Bytes(buf[:plainLen])
			copy(plain, buf[:plainLen])
			testrand.Bytes(key)
			testrand.Bytes(iv)

			if err := c.Init(key); err != nil {
				return err
			}
			if err := c.SetIV(iv, DirectionEncrypt); err != nil {
				return err
			}
			if c.AEAD() {
				if err := c.SetAAD(ref.AAD); err != nil {
					return err
				}
			}
			n, err := c.Encrypt(buf[:plainLen], buf[:plainLen])
			if err != nil {
				return err
			}
			if c.AEAD() {
				tagN, err := c.GetTag(buf[n:])
				if err != nil {
					return err
				}
				n += tagN
			}
			if cfg.Debug {
				logger.Debug("random round trip",
					log.FieldCase(trial),
					zap.Int("plaintextLen", plainLen),
					zap.String("iv", hex.EncodeToString(iv)),
					zap.String("ciphertext", hex.EncodeToString(buf[:n])))
			}

			if err := c.Init(key); err != nil {
				return err
			}
			if err := c.SetIV(iv, DirectionDecrypt); err != nil {
				return err
			}
			if c.AEAD() {
				if err := c.SetAAD(ref.AAD); err != nil {
					return err
				}
			}
			m, err := c.Decrypt(buf[:n], buf[:n])
			if err != nil {
				return err
			}
			if m != plainLen {
				return merr.WrapErrAlgorithmFailure(trial, -1, "random round trip")
			}
			if err := compareCase(trial, buf[:m], plain[:plainLen]); err != nil {
				return err
			}
		}
		return nil
	}()

	if err != nil {
		_ = c.Dealloc()
		return err
	}
	return c.Dealloc()
}
