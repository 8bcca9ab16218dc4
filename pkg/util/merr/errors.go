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
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

const (
	CanceledCode int32 = 10000
	TimeoutCode  int32 = 10001
)

type ErrorType int32

const (
	SystemError ErrorType = 0
	InputError  ErrorType = 1
)

var ErrorTypeName = map[ErrorType]string{
	SystemError: "system_error",
	InputError:  "input_error",
}

func (err ErrorType) String() string {
	return ErrorTypeName[err]
}

// Define leaf errors here,
// WARN: take care to add new error,
// check whether you can use the errors below before adding a new one.
// Name: Err + related prefix + error name
var (
	// Cipher dispatch 相关错误。
	// ErrBadParameter 表示缺失必需对象（nil 实例/类型/状态）或输入超出固定容量。
	ErrBadParameter = newCryptoError("bad parameter", 100, false)
	// ErrNoSuchOperation 表示具体算法未实现某个可选能力（SetAAD/GetTag）。
	// 注意：这是一等返回值而非契约违规，调用方据此探测算法能力。
	ErrNoSuchOperation = newCryptoError("no such operation", 101, false)

	// Self-test 相关错误。
	// ErrCannotVerify 表示自检被调用时描述符上没有任何测试向量可用。
	ErrCannotVerify = newCryptoError("cannot verify cipher without test vectors", 102, false)
	// ErrAlgorithmFailure 表示密码学输出与期望密文或原始明文不一致。
	ErrAlgorithmFailure = newCryptoError("algorithm failure", 103, false)

	// 具体算法内核相关错误。
	ErrAuthFailure    = newCryptoError("authentication tag mismatch", 104, false)
	ErrAllocFailed    = newCryptoError("cipher allocation failed", 105, false)
	ErrCipherInternal = newCryptoError("cipher internal error", 106, false)

	// Registry 相关错误。
	ErrTypeDuplicate = newCryptoError("cipher type already registered", 200, false)
	ErrTypeNotFound  = newCryptoError("cipher type not found", 201, false)

	// 测试向量相关错误。
	ErrVectorInvalid = newCryptoError("invalid test vector", 300, false)

	// Do NOT export this,
	// never allow programmer using this, keep only for converting unknown error to cryptoError
	errUnexpected = newCryptoError("unexpected error", (1<<16)-1, false)
)

type errorOption func(*cryptoError)

func WithDetail(detail string) errorOption {
	return func(err *cryptoError) {
		err.detail = detail
	}
}

func WithErrorType(etype ErrorType) errorOption {
	return func(err *cryptoError) {
		err.errType = etype
	}
}

type cryptoError struct {
	msg       string
	detail    string
	retriable bool
	errCode   int32
	errType   ErrorType
}

func newCryptoError(msg string, code int32, retriable bool, options ...errorOption) cryptoError {
	err := cryptoError{
		msg:       msg,
		detail:    msg,
		retriable: retriable,
		errCode:   code,
	}

	for _, option := range options {
		option(&err)
	}
	return err
}

func (e cryptoError) code() int32 {
	return e.errCode
}

func (e cryptoError) Error() string {
	return e.msg
}

func (e cryptoError) Detail() string {
	return e.detail
}

func (e cryptoError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(cryptoError); ok {
		return e.errCode == cause.errCode
	}
	return false
}

type multiErrors struct {
	errs []error
}

func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	// To make merr work for multi errors,
	// we need cause of multi errors, which defined as the last error
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}
