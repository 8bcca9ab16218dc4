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
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
)

type stringerAlgo string

func (s stringerAlgo) String() string { return string(s) }

type ErrSuite struct {
	suite.Suite
}

func (s *ErrSuite) TestCode() {
	err := WrapErrBadParameter("cipher instance is nil")
	errors.Wrap(err, "failed to dispatch encrypt")
	s.ErrorIs(err, ErrBadParameter)
	s.Equal(Code(ErrBadParameter), Code(err))
	s.Equal(TimeoutCode, Code(context.DeadlineExceeded))
	s.Equal(CanceledCode, Code(context.Canceled))
	s.Equal(errUnexpected.errCode, Code(errUnexpected))

	sameCodeErr := newCryptoError("new error", ErrBadParameter.errCode, false)
	s.True(sameCodeErr.Is(ErrBadParameter))
}

func (s *ErrSuite) TestWrap() {
	// Dispatch 相关错误。
	s.ErrorIs(WrapErrBadParameter("nil state", "init"), ErrBadParameter)
	s.ErrorIs(WrapErrNoSuchOperation(stringerAlgo("null"), "set_aad"), ErrNoSuchOperation)
	s.ErrorIs(WrapErrParameterOutOfCapacity("ciphertext", 200, 128), ErrBadParameter)

	// Self-test 相关错误。
	s.ErrorIs(WrapErrCannotVerify("aes gcm 128"), ErrCannotVerify)
	s.ErrorIs(WrapErrAlgorithmFailure(3, 17), ErrAlgorithmFailure)
	s.ErrorIs(WrapErrAlgorithmFailure(3, -1, "length mismatch"), ErrAlgorithmFailure)

	// 内核相关错误。
	s.ErrorIs(WrapErrAuthFailure(errors.New("cipher: message authentication failed")), ErrAuthFailure)
	s.ErrorIs(WrapErrAllocFailed("unsupported key length"), ErrAllocFailed)
	s.ErrorIs(WrapErrCipherInternal(errors.New("crypto/aes: invalid key size")), ErrCipherInternal)
	s.NoError(WrapErrCipherInternal(nil))

	// Registry 相关错误。
	s.ErrorIs(WrapErrTypeDuplicate(stringerAlgo("aes_gcm_128")), ErrTypeDuplicate)
	s.ErrorIs(WrapErrTypeNotFound(stringerAlgo("aes_gcm_512")), ErrTypeNotFound)

	// 测试向量相关错误。
	s.ErrorIs(WrapErrVectorInvalid(0, "ciphertext shorter than tag"), ErrVectorInvalid)
}

func (s *ErrSuite) TestWrapContent() {
	err := WrapErrAlgorithmFailure(2, 5)
	s.Contains(err.Error(), "case=2")
	s.Contains(err.Error(), "failureAtByte=5")

	err = WrapErrAlgorithmFailure(2, -1)
	s.Contains(err.Error(), "mismatch=length")

	err = WrapErrParameterOutOfCapacity("ciphertext", 200, 128)
	s.Contains(err.Error(), fmt.Sprintf("0 <= %s <= %d", "ciphertext", 128))
}

func (s *ErrSuite) TestInputError() {
	err := WrapErrAsInputError(ErrBadParameter)
	s.Equal(InputError, GetErrorType(err))
	s.Equal(SystemError, GetErrorType(errors.New("not a crypto error")))
}

func (s *ErrSuite) TestCombine() {
	var (
		errFirst  = errors.New("first")
		errSecond = errors.New("second")
		errThird  = errors.New("third")
	)

	err := Combine(errFirst, errSecond)
	s.True(errors.Is(err, errFirst))
	s.True(errors.Is(err, errSecond))
	s.False(errors.Is(err, errThird))

	s.Equal("first: second", err.Error())
}

func (s *ErrSuite) TestCombineWithNil() {
	err := errors.New("non-nil")

	err = Combine(nil, err)
	s.NotNil(err)
}

func (s *ErrSuite) TestCombineOnlyNil() {
	err := Combine(nil, nil)
	s.Nil(err)
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(ErrSuite))
}
