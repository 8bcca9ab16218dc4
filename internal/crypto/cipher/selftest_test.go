package cipher

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/srtp-garden-go/pkg/log"
	"github.com/lk2023060901/srtp-garden-go/pkg/util/merr"
)

type SelfTestSuite struct {
	suite.Suite
}

func (s *SelfTestSuite) SetupSuite() {
	logger, p, err := log.InitTestLogger(s.T(), &log.Config{Level: "debug"})
	s.Require().NoError(err)
	log.ReplaceGlobals(logger, p)
}

func (s *SelfTestSuite) TestBuiltinTypesPass() {
	for _, typ := range []*Type{
		NullCipherType,
		AESICM128Type,
		AESICM256Type,
		AESGCM128Type,
		AESGCM256Type,
	} {
		s.NoError(typ.SelfTest(DefaultSelfTestConfig()), typ.Description)
	}
}

func (s *SelfTestSuite) TestZeroConfigUsesDefaults() {
	s.NoError(AESGCM128Type.SelfTest(SelfTestConfig{}))
}

func (s *SelfTestSuite) TestNilType() {
	var typ *Type
	s.ErrorIs(typ.SelfTest(DefaultSelfTestConfig()), merr.ErrBadParameter)
	s.ErrorIs(TypeTest(nil, nil, DefaultSelfTestConfig()), merr.ErrBadParameter)
}

func (s *SelfTestSuite) TestEmptyVectorsCannotVerify() {
	bare := &Type{
		Algorithm:   AESICM128Type.Algorithm,
		Description: AESICM128Type.Description,
		Alloc:       AESICM128Type.Alloc,
	}
	s.ErrorIs(bare.SelfTest(DefaultSelfTestConfig()), merr.ErrCannotVerify)
}

func (s *SelfTestSuite) TestOversizedVectorRejected() {
	v := AESICM128Type.TestVectors[0]
	cfg := DefaultSelfTestConfig()
	cfg.ScratchCapacity = len(v.Ciphertext) - 1
	cfg.RandHeadroom = 16
	err := TypeTest(AESICM128Type, []TestVector{v}, cfg)
	s.ErrorIs(err, merr.ErrBadParameter)
}

func (s *SelfTestSuite) TestCorruptedVectorReportsCaseAndOffset() {
	good := AESICM128Type.TestVectors[0]
	bad := good
	bad.Ciphertext = append([]byte(nil), good.Ciphertext...)
	bad.Ciphertext[5] ^= 0xff

	err := TypeTest(AESICM128Type, []TestVector{good, bad}, DefaultSelfTestConfig())
	s.ErrorIs(err, merr.ErrAlgorithmFailure)
	s.ErrorContains(err, "case=1")
	s.ErrorContains(err, "failureAtByte=5")
}

func (s *SelfTestSuite) TestLengthMismatchVectorInvalid() {
	v := AESICM128Type.TestVectors[0]
	v.Ciphertext = v.Ciphertext[:len(v.Ciphertext)-1]
	err := TypeTest(AESICM128Type, []TestVector{v}, DefaultSelfTestConfig())
	s.ErrorIs(err, merr.ErrVectorInvalid)
}

func (s *SelfTestSuite) TestTamperedGCMVectorFailsAuth() {
	good := AESGCM128Type.TestVectors[1]
	bad := good
	bad.Ciphertext = append([]byte(nil), good.Ciphertext...)
	// 破坏标签，解密方向必须报认证失败而不是输出失配。
	bad.Ciphertext[len(bad.Ciphertext)-1] ^= 0xff

	err := TypeTest(AESGCM128Type, []TestVector{bad}, DefaultSelfTestConfig())
	s.Error(err)
}

func (s *SelfTestSuite) TestNegativeRandTrialsSkipsRandomPhase() {
	cfg := DefaultSelfTestConfig()
	cfg.RandTrials = -1
	s.NoError(AESGCM256Type.SelfTest(cfg))
}

func (s *SelfTestSuite) TestRandomPhaseRejectsOversizedKey() {
	v := NullCipherType.TestVectors[0]
	v.Key = make([]byte, defaultMaxKeyLen+1)
	cfg := DefaultSelfTestConfig()
	err := TypeTest(NullCipherType, []TestVector{v}, cfg)
	s.ErrorIs(err, merr.ErrCannotVerify)
}

func (s *SelfTestSuite) TestDebugLoggingPath() {
	cfg := DefaultSelfTestConfig()
	cfg.Debug = true
	cfg.RandTrials = 4
	s.NoError(AESGCM128Type.SelfTest(cfg))
}

func TestSelfTestSuite(t *testing.T) {
	suite.Run(t, new(SelfTestSuite))
}
