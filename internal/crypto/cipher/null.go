package cipher

import (
	"github.com/lk2023060901/srtp-garden-go/pkg/util/merr"
)

// nullKernel 是恒等变换：输入原样拷贝到输出，不做任何密码学运算。
// 用于测量框架自身开销，以及在流水线里占位。
type nullKernel struct {
	inited bool
	haveIV bool
}

var _ Kernel = (*nullKernel)(nil)

func newNullKernel(keyLen, tagLen int) (Kernel, error) {
	if keyLen < 0 {
		return nil, merr.WrapErrAllocFailed("null cipher", "negative key length")
	}
	if tagLen != 0 {
		return nil, merr.WrapErrAllocFailed("null cipher", "tag length must be zero")
	}
	return &nullKernel{}, nil
}

func (k *nullKernel) Init(key []byte) error {
	k.inited = true
	k.haveIV = false
	return nil
}

func (k *nullKernel) SetIV(iv []byte, direction Direction) error {
	if direction != DirectionEncrypt && direction != DirectionDecrypt {
		return merr.WrapErrBadParameter("direction must be encrypt or decrypt")
	}
	k.haveIV = true
	return nil
}

func (k *nullKernel) Encrypt(dst, src []byte) (int, error) {
	if len(dst) < len(src) {
		return 0, merr.WrapErrBadParameter("output buffer shorter than input")
	}
	return copy(dst, src), nil
}

func (k *nullKernel) Decrypt(dst, src []byte) (int, error) {
	return k.Encrypt(dst, src)
}

func (k *nullKernel) Dealloc() error {
	k.inited = false
	k.haveIV = false
	return nil
}

// NullCipherType 是空算法的描述符。
// 恒等变换没有外部标准向量，内置用例只锚定"密文等于明文"这一事实。
var NullCipherType = &Type{
	Algorithm:   AlgorithmNull,
	Description: "null cipher",
	Alloc:       newNullKernel,
	TestVectors: []TestVector{
		{
			Key:        mustHex("000102030405060708090a0b0c0d0e0f"),
			IV:         mustHex("00000000000000000000000000000000"),
			Plaintext:  mustHex("6bc1bee22e409f96e93d7e117393172a"),
			Ciphertext: mustHex("6bc1bee22e409f96e93d7e117393172a"),
		},
	},
}
