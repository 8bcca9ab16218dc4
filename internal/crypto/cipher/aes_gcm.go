package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"

	"github.com/lk2023060901/srtp-garden-go/pkg/util/merr"
)

const gcmNonceLen = 12

// gcmKernel 封装 AES-GCM。认证标签在加密侧带外产出（GetTag），
// 在解密侧附于输入末尾并在 Open 时校验。
type gcmKernel struct {
	keyLen int
	tagLen int

	aead      stdcipher.AEAD
	nonce     [gcmNonceLen]byte
	haveNonce bool
	direction Direction
	aad       []byte
	tag       []byte
}

var _ Kernel = (*gcmKernel)(nil)
var _ AEADKernel = (*gcmKernel)(nil)

func newGCMKernel(keyLen, tagLen int) (Kernel, error) {
	if keyLen != 16 && keyLen != 32 {
		return nil, merr.WrapErrAllocFailed("aes gcm", "key length must be 16 or 32 bytes")
	}
	if tagLen < 12 || tagLen > MaxTagLen {
		return nil, merr.WrapErrAllocFailed("aes gcm", "tag length must be between 12 and 16 bytes")
	}
	return &gcmKernel{keyLen: keyLen, tagLen: tagLen}, nil
}

func (k *gcmKernel) Init(key []byte) error {
	if len(key) != k.keyLen {
		return merr.WrapErrBadParameter("key length does not match instance key length")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return merr.WrapErrCipherInternal(err)
	}
	aead, err := stdcipher.NewGCMWithTagSize(block, k.tagLen)
	if err != nil {
		return merr.WrapErrCipherInternal(err)
	}
	k.aead = aead
	k.haveNonce = false
	k.aad = nil
	k.tag = nil
	return nil
}

func (k *gcmKernel) SetIV(iv []byte, direction Direction) error {
	if k.aead == nil {
		return merr.WrapErrBadParameter("cipher not initialized with a key")
	}
	if direction != DirectionEncrypt && direction != DirectionDecrypt {
		return merr.WrapErrBadParameter("direction must be encrypt or decrypt")
	}
	if len(iv) < gcmNonceLen {
		return merr.WrapErrBadParameter("iv shorter than the 12 byte gcm nonce")
	}
	copy(k.nonce[:], iv[:gcmNonceLen])
	k.haveNonce = true
	k.direction = direction
	// 新的 IV 周期：关联数据与上一次的标签作废。
	k.aad = k.aad[:0]
	k.tag = nil
	return nil
}

func (k *gcmKernel) SetAAD(aad []byte) error {
	if !k.haveNonce {
		return merr.WrapErrBadParameter("iv not set")
	}
	k.aad = append(k.aad, aad...)
	return nil
}

func (k *gcmKernel) Encrypt(dst, src []byte) (int, error) {
	if k.aead == nil || !k.haveNonce {
		return 0, merr.WrapErrBadParameter("cipher not keyed or iv not set")
	}
	if k.direction != DirectionEncrypt {
		return 0, merr.WrapErrBadParameter("iv was set for decryption")
	}
	if len(dst) < len(src) {
		return 0, merr.WrapErrBadParameter("output buffer shorter than input")
	}
	// dst 可能与 src 共享存储且没有标签的余量，Seal 到独立缓冲后再拆分。
	sealed := k.aead.Seal(nil, k.nonce[:], src, k.aad)
	copy(dst, sealed[:len(src)])
	k.tag = sealed[len(src):]
	return len(src), nil
}

func (k *gcmKernel) GetTag(buf []byte) (int, error) {
	if k.tag == nil {
		return 0, merr.WrapErrBadParameter("no tag available, encrypt first")
	}
	if len(buf) < len(k.tag) {
		return 0, merr.WrapErrBadParameter("tag buffer too short")
	}
	return copy(buf, k.tag), nil
}

func (k *gcmKernel) Decrypt(dst, src []byte) (int, error) {
	if k.aead == nil || !k.haveNonce {
		return 0, merr.WrapErrBadParameter("cipher not keyed or iv not set")
	}
	if k.direction != DirectionDecrypt {
		return 0, merr.WrapErrBadParameter("iv was set for encryption")
	}
	if len(src) < k.tagLen {
		return 0, merr.WrapErrBadParameter("input shorter than the authentication tag")
	}
	plain, err := k.aead.Open(nil, k.nonce[:], src, k.aad)
	if err != nil {
		return 0, merr.WrapErrAuthFailure(err)
	}
	if len(dst) < len(plain) {
		return 0, merr.WrapErrBadParameter("output buffer shorter than plaintext")
	}
	return copy(dst, plain), nil
}

func (k *gcmKernel) Dealloc() error {
	k.aead = nil
	k.haveNonce = false
	for i := range k.aad {
		k.aad[i] = 0
	}
	k.aad = nil
	k.tag = nil
	return nil
}

// AESGCM128Type 的内置用例取自 McGrew & Viega 的 GCM 论文测试集：
// 空输入（仅标签）、无关联数据的整块消息、带关联数据的非整块消息各一条。
var AESGCM128Type = &Type{
	Algorithm:   AlgorithmAESGCM128,
	Description: "AES-128 GCM",
	Alloc:       newGCMKernel,
	TestVectors: []TestVector{
		{
			Key:        mustHex("00000000000000000000000000000000"),
			IV:         mustHex("000000000000000000000000"),
			Ciphertext: mustHex("58e2fccefa7e3061367f1d57a4e7455a"),
			TagLen:     16,
		},
		{
			Key: mustHex("feffe9928665731c6d6a8f9467308308"),
			IV:  mustHex("cafebabefacedbaddecaf888"),
			Plaintext: mustHex("d9313225f88406e5a55909c5aff5269a" +
				"86a7a9531534f7da2e4c303d8a318a72" +
				"1c3c0c95956809532fcf0e2449a6b525" +
				"b16aedf5aa0de657ba637b391aafd255"),
			Ciphertext: mustHex("42831ec2217774244b7221b784d0d49c" +
				"e3aa212f2c02a4e035c17e2329aca12e" +
				"21d514b25466931c7d8f6a5aac84aa05" +
				"1ba30b396a0aac973d58e091473f5985" +
				"4d5c2af327cd64a62cf35abd2ba6fab4"),
			TagLen: 16,
		},
		{
			Key: mustHex("feffe9928665731c6d6a8f9467308308"),
			IV:  mustHex("cafebabefacedbaddecaf888"),
			AAD: mustHex("feedfacedeadbeeffeedfacedeadbeef" +
				"abaddad2"),
			Plaintext: mustHex("d9313225f88406e5a55909c5aff5269a" +
				"86a7a9531534f7da2e4c303d8a318a72" +
				"1c3c0c95956809532fcf0e2449a6b525" +
				"b16aedf5aa0de657ba637b39"),
			Ciphertext: mustHex("42831ec2217774244b7221b784d0d49c" +
				"e3aa212f2c02a4e035c17e2329aca12e" +
				"21d514b25466931c7d8f6a5aac84aa05" +
				"1ba30b396a0aac973d58e091" +
				"5bc94fbc3221a5db94fae95ae7121a47"),
			TagLen: 16,
		},
	},
}

// AESGCM256Type 同样取自 McGrew & Viega 测试集的 256 位用例。
var AESGCM256Type = &Type{
	Algorithm:   AlgorithmAESGCM256,
	Description: "AES-256 GCM",
	Alloc:       newGCMKernel,
	TestVectors: []TestVector{
		{
			Key: mustHex("00000000000000000000000000000000" +
				"00000000000000000000000000000000"),
			IV:         mustHex("000000000000000000000000"),
			Ciphertext: mustHex("530f8afbc74536b9a963b4f1c4cb738b"),
			TagLen:     16,
		},
		{
			Key: mustHex("feffe9928665731c6d6a8f9467308308" +
				"feffe9928665731c6d6a8f9467308308"),
			IV: mustHex("cafebabefacedbaddecaf888"),
			AAD: mustHex("feedfacedeadbeeffeedfacedeadbeef" +
				"abaddad2"),
			Plaintext: mustHex("d9313225f88406e5a55909c5aff5269a" +
				"86a7a9531534f7da2e4c303d8a318a72" +
				"1c3c0c95956809532fcf0e2449a6b525" +
				"b16aedf5aa0de657ba637b39"),
			Ciphertext: mustHex("522dc1f099567d07f47f37a32a84427d" +
				"643a8cdcbfe5c0c97598a2bd2555d1aa" +
				"8cb08e48590dbb3da7b08b1056828838" +
				"c5f61e6393ba7a0abcc9f662" +
				"76fc6ece0f4e1768cddf8853bb2d551b"),
			TagLen: 16,
		},
	},
}
