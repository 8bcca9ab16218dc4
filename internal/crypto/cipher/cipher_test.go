package cipher

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/srtp-garden-go/pkg/util/merr"
)

type DispatchSuite struct {
	suite.Suite
}

func (s *DispatchSuite) TestAllocBadType() {
	_, err := AllocCipher(nil, 16, 0)
	s.ErrorIs(err, merr.ErrBadParameter)

	_, err = AllocCipher(&Type{Algorithm: AlgorithmNull}, 16, 0)
	s.ErrorIs(err, merr.ErrBadParameter)
}

func (s *DispatchSuite) TestAllocRejectsBadSizes() {
	_, err := AllocCipher(AESICM128Type, 15, 0)
	s.ErrorIs(err, merr.ErrAllocFailed)

	_, err = AllocCipher(AESICM128Type, 16, 4)
	s.ErrorIs(err, merr.ErrAllocFailed)

	_, err = AllocCipher(AESGCM128Type, 16, 4)
	s.ErrorIs(err, merr.ErrAllocFailed)

	_, err = AllocCipher(NullCipherType, -1, 0)
	s.ErrorIs(err, merr.ErrAllocFailed)
}

func (s *DispatchSuite) TestAccessors() {
	c, err := AllocCipher(AESGCM256Type, 32, 16)
	s.Require().NoError(err)
	defer c.Dealloc()

	s.Equal(32, c.KeyLength())
	s.Equal(16, c.TagLength())
	s.Equal(AlgorithmAESGCM256, c.Algorithm())
	s.True(c.AEAD())

	var nilCipher *Cipher
	s.Equal(0, nilCipher.KeyLength())
	s.Equal(0, nilCipher.TagLength())
	s.False(nilCipher.AEAD())
}

func (s *DispatchSuite) TestOptionalOperationsOnStreamCipher() {
	c, err := AllocCipher(AESICM128Type, 16, 0)
	s.Require().NoError(err)
	defer c.Dealloc()

	s.False(c.AEAD())
	s.ErrorIs(c.SetAAD([]byte{1, 2, 3}), merr.ErrNoSuchOperation)
	_, err = c.GetTag(make([]byte, MaxTagLen))
	s.ErrorIs(err, merr.ErrNoSuchOperation)

	// 能力缺失不影响实例继续使用。
	s.Require().NoError(c.Init(make([]byte, 16)))
	s.Require().NoError(c.SetIV(make([]byte, 16), DirectionEncrypt))
	n, err := c.Encrypt(make([]byte, 8), make([]byte, 8))
	s.NoError(err)
	s.Equal(8, n)
}

func (s *DispatchSuite) TestDeallocOnce() {
	c, err := AllocCipher(NullCipherType, 0, 0)
	s.Require().NoError(err)
	s.NoError(c.Dealloc())
	s.ErrorIs(c.Dealloc(), merr.ErrBadParameter)
	s.ErrorIs(c.Init(nil), merr.ErrBadParameter)
	_, err = c.Encrypt(nil, nil)
	s.ErrorIs(err, merr.ErrBadParameter)
}

func (s *DispatchSuite) TestKeystreamOutputMatchesEncryptOfZeros() {
	v := &AESICM128Type.TestVectors[0]

	ks, err := AllocCipher(AESICM128Type, 16, 0)
	s.Require().NoError(err)
	defer ks.Dealloc()
	s.Require().NoError(ks.Init(v.Key))
	s.Require().NoError(ks.SetIV(v.IV, DirectionEncrypt))

	enc, err := AllocCipher(AESICM128Type, 16, 0)
	s.Require().NoError(err)
	defer enc.Dealloc()
	s.Require().NoError(enc.Init(v.Key))
	s.Require().NoError(enc.SetIV(v.IV, DirectionEncrypt))

	keystream := make([]byte, 48)
	// 预先写入脏数据，KeystreamOutput 必须先清零再加密。
	for i := range keystream {
		keystream[i] = 0xa5
	}
	n, err := ks.KeystreamOutput(keystream)
	s.Require().NoError(err)
	s.Equal(48, n)

	zeros := make([]byte, 48)
	encrypted := make([]byte, 48)
	_, err = enc.Encrypt(encrypted, zeros)
	s.Require().NoError(err)
	s.True(bytes.Equal(keystream, encrypted))
}

func (s *DispatchSuite) TestNames() {
	s.Equal("null", AlgorithmNull.String())
	s.Equal("aes_icm_128", AlgorithmAESICM128.String())
	s.Equal("aes_gcm_256", AlgorithmAESGCM256.String())
	s.Equal("unknown", AlgorithmID(42).String())

	s.Equal("encrypt", DirectionEncrypt.String())
	s.Equal("decrypt", DirectionDecrypt.String())
	s.Equal("any", DirectionAny.String())
}

func TestDispatchSuite(t *testing.T) {
	suite.Run(t, new(DispatchSuite))
}
