package json

import (
	"io"

	"github.com/bytedance/sonic"
)

// 统一封装项目内使用的 JSON 实现（bytedance/sonic），
// 调用方不直接依赖具体 JSON 库，便于后续替换。
var (
	json = sonic.ConfigStd

	// Marshal 将对象编码为 JSON 字节序列。
	Marshal = json.Marshal
	// Unmarshal 将 JSON 字节序列解码到目标对象。
	Unmarshal = json.Unmarshal
	// MarshalIndent 以缩进格式编码 JSON。
	MarshalIndent = json.MarshalIndent
)

// NewDecoder 创建一个从 r 读取的 JSON 解码器。
func NewDecoder(r io.Reader) sonic.Decoder {
	return json.NewDecoder(r)
}

// NewEncoder 创建一个写入 w 的 JSON 编码器。
func NewEncoder(w io.Writer) sonic.Encoder {
	return json.NewEncoder(w)
}
