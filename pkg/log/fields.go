package log

import (
	"go.uber.org/zap"
)

const (
	FieldNameModule    = "module"
	FieldNameAlgorithm = "algorithm"
	FieldNameCase      = "case"
)

// FieldModule 返回一个包含模块名的 zap 字段。
func FieldModule(module string) zap.Field {
	return zap.String(FieldNameModule, module)
}

// FieldAlgorithm 返回一个包含算法名的 zap 字段。
func FieldAlgorithm(algorithm string) zap.Field {
	return zap.String(FieldNameAlgorithm, algorithm)
}

// FieldCase 返回一个包含自检用例序号的 zap 字段。
func FieldCase(caseNum int) zap.Field {
	return zap.Int(FieldNameCase, caseNum)
}
