package cipher

import (
	"github.com/lk2023060901/srtp-garden-go/pkg/util/merr"
)

// AlgorithmID 标识一个对称加密算法族。
type AlgorithmID int32

const (
	AlgorithmNull AlgorithmID = iota
	AlgorithmAESICM128
	AlgorithmAESICM256
	AlgorithmAESGCM128
	AlgorithmAESGCM256
)

var algorithmNames = map[AlgorithmID]string{
	AlgorithmNull:      "null",
	AlgorithmAESICM128: "aes_icm_128",
	AlgorithmAESICM256: "aes_icm_256",
	AlgorithmAESGCM128: "aes_gcm_128",
	AlgorithmAESGCM256: "aes_gcm_256",
}

func (id AlgorithmID) String() string {
	if name, ok := algorithmNames[id]; ok {
		return name
	}
	return "unknown"
}

// Direction 表示一次 IV 设置之后，后续变换调用的方向。
// 方向不持久保存在实例上，每次 SetIV 重新指定。
type Direction int

const (
	DirectionAny Direction = iota
	DirectionEncrypt
	DirectionDecrypt
)

func (d Direction) String() string {
	switch d {
	case DirectionEncrypt:
		return "encrypt"
	case DirectionDecrypt:
		return "decrypt"
	default:
		return "any"
	}
}

const (
	// MaxTagLen 为支持的最大认证标签长度（AES-GCM，16 字节）。
	MaxTagLen = 16

	// MaxIVLen 为 SetIV 可接受的最大 IV 宽度。
	// 算法只消费其前缀：GCM 取前 12 字节，ICM 取前 16 字节。
	MaxIVLen = 64
)

// Kernel 抽象了具体算法必须实现的契约。
//
// 实例状态完全由 Kernel 自己持有；调用方通过 Cipher 分发层访问，
// 不直接触碰 Kernel。所有方法都会原地修改内部状态，因此单个实例
// 不能被多个 goroutine 并发使用。
type Kernel interface {
	// Init 载入 key 并完成算法相关的密钥调度。
	// 重复调用表示重新初始化：重置密钥流/认证状态，但不改变实例的固定尺寸。
	Init(key []byte) error

	// SetIV 建立 nonce/IV，并指定后续变换的方向。
	SetIV(iv []byte, direction Direction) error

	// Encrypt 将 src 的全部字节变换后写入 dst，返回写入的字节数。
	// dst 与 src 允许指向同一底层存储（原地变换）。
	Encrypt(dst, src []byte) (int, error)

	// Decrypt 与 Encrypt 对称；对 AEAD 算法，src 末尾携带认证标签。
	Decrypt(dst, src []byte) (int, error)

	// Dealloc 释放实例持有的全部资源并擦除密钥材料。
	Dealloc() error
}

// AEADKernel 是 AEAD 算法的可选能力。
// 通过类型断言探测；不实现该接口的算法由分发层统一返回 ErrNoSuchOperation。
type AEADKernel interface {
	// SetAAD 设置关联数据。同一 IV 周期内多次调用为追加语义，SetIV 会重置。
	SetAAD(aad []byte) error

	// GetTag 取出最近一次加密产生的认证标签，返回标签长度。
	// 仅在加密之后调用有效。
	GetTag(buf []byte) (int, error)
}

// Type 是一个算法族的能力描述符：算法标识、可读描述、分配器，
// 以及一组顺序固定、只读的自检测试向量。
type Type struct {
	Algorithm   AlgorithmID
	Description string

	// Alloc 创建一个 Kernel，其 key/tag 长度自创建起固定不变。
	Alloc func(keyLen, tagLen int) (Kernel, error)

	// TestVectors 为已知答案测试用例，遍历顺序决定失败报告中的用例编号。
	TestVectors []TestVector
}

// Cipher 是一个已分配的算法实例。
// key 长度与 tag 长度在分配时固定，生命周期内不变。
type Cipher struct {
	typ    *Type
	state  Kernel
	keyLen int
	tagLen int
}

// AllocCipher 通过描述符的分配器创建实例。
// 描述符或其分配器缺失时返回 ErrBadParameter。
func AllocCipher(t *Type, keyLen, tagLen int) (*Cipher, error) {
	if t == nil || t.Alloc == nil {
		return nil, merr.WrapErrBadParameter("cipher type has no allocator")
	}
	state, err := t.Alloc(keyLen, tagLen)
	if err != nil {
		return nil, err
	}
	return &Cipher{
		typ:    t,
		state:  state,
		keyLen: keyLen,
		tagLen: tagLen,
	}, nil
}

func (c *Cipher) valid() error {
	if c == nil || c.typ == nil || c.state == nil {
		return merr.WrapErrBadParameter("cipher instance is nil or deallocated")
	}
	return nil
}

// Dealloc 释放实例。每个实例必须且只能被释放一次，重复释放返回 ErrBadParameter。
func (c *Cipher) Dealloc() error {
	if err := c.valid(); err != nil {
		return err
	}
	err := c.state.Dealloc()
	c.state = nil
	return err
}

// Init 载入密钥材料，算法相关的密钥调度在具体实现内部完成。
func (c *Cipher) Init(key []byte) error {
	if err := c.valid(); err != nil {
		return err
	}
	return c.state.Init(key)
}

// SetIV 建立 nonce/IV 并指定后续调用是加密还是解密。
func (c *Cipher) SetIV(iv []byte, direction Direction) error {
	if err := c.valid(); err != nil {
		return err
	}
	return c.state.SetIV(iv, direction)
}

// SetAAD 设置关联数据。仅对 AEAD 算法有意义；
// 算法不具备该能力时返回 ErrNoSuchOperation，而非崩溃或参数错误。
func (c *Cipher) SetAAD(aad []byte) error {
	if err := c.valid(); err != nil {
		return err
	}
	aead, ok := c.state.(AEADKernel)
	if !ok {
		return merr.WrapErrNoSuchOperation(c.typ.Algorithm, "set_aad")
	}
	return aead.SetAAD(aad)
}

// Encrypt 变换 src 的全部字节并写入 dst，返回输出长度。
func (c *Cipher) Encrypt(dst, src []byte) (int, error) {
	if err := c.valid(); err != nil {
		return 0, err
	}
	return c.state.Encrypt(dst, src)
}

// Decrypt 与 Encrypt 对称。两者不要求在实现内部互为镜像：
// AEAD 的标签在加密侧经由 GetTag 带外取出，在解密侧附于 src 末尾。
func (c *Cipher) Decrypt(dst, src []byte) (int, error) {
	if err := c.valid(); err != nil {
		return 0, err
	}
	return c.state.Decrypt(dst, src)
}

// GetTag 取出最近一次加密产生的认证标签。
// 非 AEAD 算法返回 ErrNoSuchOperation，信号方式与 SetAAD 一致。
func (c *Cipher) GetTag(buf []byte) (int, error) {
	if err := c.valid(); err != nil {
		return 0, err
	}
	aead, ok := c.state.(AEADKernel)
	if !ok {
		return 0, merr.WrapErrNoSuchOperation(c.typ.Algorithm, "get_tag")
	}
	return aead.GetTag(buf)
}

// KeystreamOutput 先将 buf 清零再原地加密，得到原始密钥流。
// 用于只需要密钥流本身、而不是与真实数据异或的场合。
func (c *Cipher) KeystreamOutput(buf []byte) (int, error) {
	if err := c.valid(); err != nil {
		return 0, err
	}
	for i := range buf {
		buf[i] = 0
	}
	return c.state.Encrypt(buf, buf)
}

// KeyLength 返回实例的密钥长度。纯访问器，无失败模式。
func (c *Cipher) KeyLength() int {
	if c == nil {
		return 0
	}
	return c.keyLen
}

// TagLength 返回实例的认证标签长度，非 AEAD 算法为 0。
func (c *Cipher) TagLength() int {
	if c == nil {
		return 0
	}
	return c.tagLen
}

// Algorithm 返回实例的算法标识。
func (c *Cipher) Algorithm() AlgorithmID {
	if c == nil || c.typ == nil {
		return AlgorithmNull
	}
	return c.typ.Algorithm
}

// AEAD 报告实例是否具备关联数据与认证标签能力。
func (c *Cipher) AEAD() bool {
	if c == nil || c.state == nil {
		return false
	}
	_, ok := c.state.(AEADKernel)
	return ok
}
