package cipher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/srtp-garden-go/pkg/log"
	"github.com/lk2023060901/srtp-garden-go/pkg/util/merr"
)

type RegistrySuite struct {
	suite.Suite
}

func (s *RegistrySuite) SetupSuite() {
	logger, p, err := log.InitTestLogger(s.T(), &log.Config{Level: "debug"})
	s.Require().NoError(err)
	log.ReplaceGlobals(logger, p)
}

func (s *RegistrySuite) TestRegisterAndLookup() {
	r := NewRegistry()
	s.NoError(r.Register(NullCipherType))
	s.NoError(r.Register(AESGCM128Type))

	typ, err := r.Lookup(AlgorithmAESGCM128)
	s.Require().NoError(err)
	s.Same(AESGCM128Type, typ)

	_, err = r.Lookup(AlgorithmAESICM256)
	s.ErrorIs(err, merr.ErrTypeNotFound)
}

func (s *RegistrySuite) TestRegisterRejectsDuplicate() {
	r := NewRegistry()
	s.NoError(r.Register(AESICM128Type))
	s.ErrorIs(r.Register(AESICM128Type), merr.ErrTypeDuplicate)
	s.Len(r.Types(), 1)
}

func (s *RegistrySuite) TestRegisterRejectsNil() {
	r := NewRegistry()
	s.ErrorIs(r.Register(nil), merr.ErrBadParameter)
	s.ErrorIs(r.Register(&Type{Algorithm: AlgorithmNull}), merr.ErrBadParameter)
}

func (s *RegistrySuite) TestTypesPreserveRegistrationOrder() {
	r := NewRegistry()
	ordered := []*Type{AESGCM256Type, NullCipherType, AESICM128Type}
	for _, typ := range ordered {
		s.Require().NoError(r.Register(typ))
	}
	got := r.Types()
	s.Require().Len(got, len(ordered))
	for i := range ordered {
		s.Same(ordered[i], got[i])
	}
}

func (s *RegistrySuite) TestSelfTestAll() {
	s.NoError(DefaultRegistry().SelfTestAll(context.Background(), DefaultSelfTestConfig()))
}

func (s *RegistrySuite) TestSelfTestAllAggregatesFailures() {
	r := NewRegistry()
	s.Require().NoError(r.Register(NullCipherType))
	s.Require().NoError(r.Register(&Type{
		Algorithm:   AlgorithmAESICM128,
		Description: "no vectors",
		Alloc:       newICMKernel,
	}))
	err := r.SelfTestAll(context.Background(), DefaultSelfTestConfig())
	s.ErrorIs(err, merr.ErrCannotVerify)
}

func (s *RegistrySuite) TestSelfTestAllHonorsContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.ErrorIs(DefaultRegistry().SelfTestAll(ctx, DefaultSelfTestConfig()), context.Canceled)
}

func (s *RegistrySuite) TestEnsureSelfTest() {
	r := NewRegistry()
	s.Require().NoError(r.Register(AESGCM128Type))

	ctx := context.Background()
	cfg := DefaultSelfTestConfig()
	s.NoError(r.EnsureSelfTest(ctx, AlgorithmAESGCM128, cfg))
	// 第二次命中已验证集合，直接返回。
	s.NoError(r.EnsureSelfTest(ctx, AlgorithmAESGCM128, cfg))

	s.ErrorIs(r.EnsureSelfTest(ctx, AlgorithmAESICM128, cfg), merr.ErrTypeNotFound)
}

func (s *RegistrySuite) TestDefaultRegistryBuiltins() {
	types := DefaultRegistry().Types()
	s.Require().Len(types, 5)
	s.Equal(AlgorithmNull, types[0].Algorithm)
	s.Equal(AlgorithmAESGCM256, types[4].Algorithm)
	s.Same(DefaultRegistry(), DefaultRegistry())
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}
