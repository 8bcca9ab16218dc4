package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/srtp-garden-go/internal/crypto/cipher"
)

func TestRunWithoutConfigFile(t *testing.T) {
	t.Setenv("SRTP_GARDEN_LOG_STDOUT", "false")

	app := New()
	require.NoError(t, app.Run(context.Background()))
	require.Nil(t, app.Config())
	require.NotNil(t, app.Registry())
	require.Equal(t, cipher.DefaultSelfTestConfig().RandTrials, app.SelfTestConfig().RandTrials)
}

func TestRunWithConfigFile(t *testing.T) {
	t.Setenv("SRTP_GARDEN_LOG_STDOUT", "false")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
log:
  level: debug
  stdout: false
selftest:
  startup: true
  rand-trials: 8
  debug: false
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	t.Setenv("SRTP_GARDEN_CONFIG_FILE_PATH", path)

	app := New()
	require.NoError(t, app.Run(context.Background()))
	require.NotNil(t, app.Config())
	require.Equal(t, 8, app.SelfTestConfig().RandTrials)

	// startup: true 已经跑过一次全量自检，再跑一次也必须通过。
	require.NoError(t, app.Registry().SelfTestAll(context.Background(), app.SelfTestConfig()))
}

func TestRunRejectsMissingExplicitConfig(t *testing.T) {
	t.Setenv("SRTP_GARDEN_LOG_STDOUT", "false")
	t.Setenv("SRTP_GARDEN_CONFIG_FILE_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	app := New()
	require.Error(t, app.Run(context.Background()))
}
