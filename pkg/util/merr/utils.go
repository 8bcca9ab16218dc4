// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code 返回给定错误对应的错误码。
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	cause := errors.Cause(err)
	switch specificErr := cause.(type) {
	case cryptoError:
		return specificErr.code()

	default:
		if errors.Is(specificErr, context.Canceled) {
			return CanceledCode
		} else if errors.Is(specificErr, context.DeadlineExceeded) {
			return TimeoutCode
		} else {
			return errUnexpected.code()
		}
	}
}

func IsRetryableErr(err error) bool {
	if err, ok := err.(cryptoError); ok {
		return err.retriable
	}

	return false
}

func IsCanceledOrTimeout(err error) bool {
	return errors.IsAny(err, context.Canceled, context.DeadlineExceeded)
}

func GetErrorType(err error) ErrorType {
	if merr, ok := err.(cryptoError); ok {
		return merr.errType
	}

	return SystemError
}

func WrapErrAsInputError(err error) error {
	if merr, ok := err.(cryptoError); ok {
		WithErrorType(InputError)(&merr)
		return merr
	}
	return err
}

// Dispatch 相关错误封装。
func WrapErrBadParameter(reason string, msg ...string) error {
	err := wrapFieldsWithDesc(ErrBadParameter, reason)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrNoSuchOperation(algorithm fmt.Stringer, op string) error {
	return wrapFields(ErrNoSuchOperation,
		value("algorithm", algorithm),
		value("op", op),
	)
}

// Self-test 相关错误封装。
func WrapErrCannotVerify(description string) error {
	return wrapFields(ErrCannotVerify, value("cipher", description))
}

// WrapErrAlgorithmFailure 记录失败的用例序号与首个不一致的字节偏移，
// offset 为负表示长度不匹配而非内容不匹配。
func WrapErrAlgorithmFailure(caseNum int, offset int, msg ...string) error {
	var err error
	if offset < 0 {
		err = wrapFields(ErrAlgorithmFailure,
			value("case", caseNum),
			value("mismatch", "length"),
		)
	} else {
		err = wrapFields(ErrAlgorithmFailure,
			value("case", caseNum),
			value("failureAtByte", offset),
		)
	}
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// 内核相关错误封装。
func WrapErrAuthFailure(err error) error {
	if err == nil {
		return error(ErrAuthFailure)
	}
	return wrapFieldsWithDesc(ErrAuthFailure, err.Error())
}

func WrapErrAllocFailed(reason string, msg ...string) error {
	err := wrapFieldsWithDesc(ErrAllocFailed, reason)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrCipherInternal(err error) error {
	if err == nil {
		return nil
	}
	return wrapFieldsWithDesc(ErrCipherInternal, err.Error())
}

// Registry 相关错误封装。
func WrapErrTypeDuplicate(algorithm fmt.Stringer) error {
	return wrapFields(ErrTypeDuplicate, value("algorithm", algorithm))
}

func WrapErrTypeNotFound(algorithm fmt.Stringer) error {
	return wrapFields(ErrTypeNotFound, value("algorithm", algorithm))
}

// 测试向量相关错误封装。
func WrapErrVectorInvalid(index int, reason string) error {
	return wrapFieldsWithDesc(ErrVectorInvalid, reason, value("index", index))
}

func wrapFields(err cryptoError, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.detail = err.msg
	return err
}

func wrapFieldsWithDesc(err cryptoError, desc string, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.msg += ": " + desc
	err.detail = err.msg
	return err
}

type errorField interface {
	String() string
}

type valueField struct {
	name  string
	value any
}

func value(name string, value any) valueField {
	return valueField{
		name,
		value,
	}
}

func (f valueField) String() string {
	return fmt.Sprintf("%s=%v", f.name, f.value)
}

type boundField struct {
	name  string
	value any
	lower any
	upper any
}

func bound(name string, value, lower, upper any) boundField {
	return boundField{
		name,
		value,
		lower,
		upper,
	}
}

func (f boundField) String() string {
	return fmt.Sprintf("%v out of range %v <= %s <= %v", f.value, f.lower, f.name, f.upper)
}

// WrapErrParameterOutOfCapacity 用于缓冲区容量检查失败：
// 数据长度必须落在 [0, capacity] 区间内。
func WrapErrParameterOutOfCapacity(name string, length, capacity int) error {
	return wrapFields(ErrBadParameter, bound(name, length, 0, capacity))
}
