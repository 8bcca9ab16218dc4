package cipher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/srtp-garden-go/pkg/util/merr"
)

func TestICMKnownAnswer(t *testing.T) {
	for _, typ := range []*Type{AESICM128Type, AESICM256Type} {
		v := &typ.TestVectors[0]
		c, err := AllocCipher(typ, len(v.Key), 0)
		require.NoError(t, err)

		require.NoError(t, c.Init(v.Key))
		require.NoError(t, c.SetIV(v.IV, DirectionEncrypt))
		out := make([]byte, len(v.Plaintext))
		n, err := c.Encrypt(out, v.Plaintext)
		require.NoError(t, err)
		require.Equal(t, v.Ciphertext, out[:n])

		// 解密是同一密钥流的再次异或。
		require.NoError(t, c.SetIV(v.IV, DirectionDecrypt))
		n, err = c.Decrypt(out, out)
		require.NoError(t, err)
		require.Equal(t, v.Plaintext, out[:n])

		require.NoError(t, c.Dealloc())
	}
}

func TestICMPartialBlockBoundaries(t *testing.T) {
	v := &AESICM128Type.TestVectors[0]
	c, err := AllocCipher(AESICM128Type, 16, 0)
	require.NoError(t, err)
	defer c.Dealloc()
	require.NoError(t, c.Init(v.Key))

	// 非整块长度的前缀仍必须与整段加密的前缀一致。
	for _, n := range []int{1, 15, 17, 33} {
		require.NoError(t, c.SetIV(v.IV, DirectionEncrypt))
		out := make([]byte, n)
		written, err := c.Encrypt(out, v.Plaintext[:n])
		require.NoError(t, err)
		require.Equal(t, n, written)
		require.Equal(t, v.Ciphertext[:n], out)
	}
}

func TestICMOperationOrdering(t *testing.T) {
	c, err := AllocCipher(AESICM128Type, 16, 0)
	require.NoError(t, err)
	defer c.Dealloc()

	// 未初始化密钥之前不能设置 IV，未设置 IV 之前不能加密。
	require.ErrorIs(t, c.SetIV(make([]byte, 16), DirectionEncrypt), merr.ErrBadParameter)
	require.NoError(t, c.Init(make([]byte, 16)))
	_, err = c.Encrypt(make([]byte, 8), make([]byte, 8))
	require.ErrorIs(t, err, merr.ErrBadParameter)

	require.ErrorIs(t, c.SetIV(make([]byte, 8), DirectionEncrypt), merr.ErrBadParameter)
	require.ErrorIs(t, c.SetIV(make([]byte, 16), DirectionAny), merr.ErrBadParameter)
}
