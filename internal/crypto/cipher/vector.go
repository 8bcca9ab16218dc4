package cipher

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/samber/lo"

	"github.com/lk2023060901/srtp-garden-go/internal/json"
	"github.com/lk2023060901/srtp-garden-go/pkg/util/merr"
)

// TestVector 是一条已知答案测试用例。字段创建后只读。
//
// 对 AEAD 算法，Ciphertext 末尾携带 TagLen 字节的认证标签；
// 对流式/空算法，TagLen 为 0 且两侧长度相等。
type TestVector struct {
	Key        []byte
	IV         []byte
	AAD        []byte
	Plaintext  []byte
	Ciphertext []byte
	TagLen     int
}

// AEAD 报告该向量是否描述一次带认证标签的变换。
func (v *TestVector) AEAD() bool {
	return v.TagLen > 0
}

// Validate 校验向量自身的长度不变量。
func (v *TestVector) Validate() error {
	if v.TagLen < 0 || v.TagLen > MaxTagLen {
		return fmt.Errorf("tag length %d out of range [0, %d]", v.TagLen, MaxTagLen)
	}
	want := len(v.Plaintext) + v.TagLen
	if len(v.Ciphertext) != want {
		return fmt.Errorf("ciphertext length %d, want %d (plaintext %d + tag %d)",
			len(v.Ciphertext), want, len(v.Plaintext), v.TagLen)
	}
	return nil
}

// vectorJSON 是测试向量的序列化形式，所有字节字段使用小写十六进制编码。
type vectorJSON struct {
	Key        string `json:"key"`
	IV         string `json:"iv"`
	AAD        string `json:"aad,omitempty"`
	Plaintext  string `json:"plaintext"`
	Ciphertext string `json:"ciphertext"`
	TagLen     int    `json:"tag_len,omitempty"`
}

func (j *vectorJSON) decode() (TestVector, error) {
	var v TestVector
	var err error
	fields := []struct {
		name string
		src  string
		dst  *[]byte
	}{
		{"key", j.Key, &v.Key},
		{"iv", j.IV, &v.IV},
		{"aad", j.AAD, &v.AAD},
		{"plaintext", j.Plaintext, &v.Plaintext},
		{"ciphertext", j.Ciphertext, &v.Ciphertext},
	}
	for _, f := range fields {
		if *f.dst, err = hex.DecodeString(f.src); err != nil {
			return v, fmt.Errorf("field %s: %w", f.name, err)
		}
	}
	v.TagLen = j.TagLen
	return v, err
}

// ParseVectors 从 JSON 字节流解析一组测试向量并逐条校验。
func ParseVectors(data []byte) ([]TestVector, error) {
	var raw []vectorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, merr.WrapErrVectorInvalid(-1, err.Error())
	}
	vectors := make([]TestVector, 0, len(raw))
	for i := range raw {
		v, err := raw[i].decode()
		if err == nil {
			err = v.Validate()
		}
		if err != nil {
			return nil, merr.WrapErrVectorInvalid(i, err.Error())
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

// LoadVectors 从 JSON 文件加载测试向量。
func LoadVectors(path string) ([]TestVector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseVectors(data)
}

// MarshalVectors 将一组测试向量编码为 JSON，便于导出固定用例。
func MarshalVectors(vectors []TestVector) ([]byte, error) {
	raw := lo.Map(vectors, func(v TestVector, _ int) vectorJSON {
		return vectorJSON{
			Key:        hex.EncodeToString(v.Key),
			IV:         hex.EncodeToString(v.IV),
			AAD:        hex.EncodeToString(v.AAD),
			Plaintext:  hex.EncodeToString(v.Plaintext),
			Ciphertext: hex.EncodeToString(v.Ciphertext),
			TagLen:     v.TagLen,
		}
	})
	return json.MarshalIndent(raw, "", "  ")
}

// mustHex 在包初始化阶段解码内置向量的十六进制字面量，出错即 panic。
func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(fmt.Sprintf("bad hex literal %q: %v", s, err))
	}
	return b
}
