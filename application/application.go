package application

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/lk2023060901/srtp-garden-go/internal/crypto/cipher"
	zlog "github.com/lk2023060901/srtp-garden-go/pkg/log"
	"github.com/lk2023060901/srtp-garden-go/pkg/metrics"
	zviper "github.com/lk2023060901/srtp-garden-go/pkg/util/viper"
)

var registerMetricsOnce sync.Once

// SelfTestOptions 是配置文件 selftest 段的映射。
type SelfTestOptions struct {
	// Startup 为 true 时，Run 阶段对全部内置算法做一次自检。
	Startup bool `mapstructure:"startup"`
	// RandTrials 覆盖随机往返轮数，0 表示使用默认值。
	RandTrials int `mapstructure:"rand-trials"`
	// Debug 打开逐用例的十六进制输出。
	Debug bool `mapstructure:"debug"`
}

// Application 是进程级运行容器：持有配置、初始化日志与指标，
// 并在启动阶段完成算法注册表的自检。
type Application struct {
	cfg      *zviper.Config
	registry *cipher.Registry
	selfTest cipher.SelfTestConfig
}

// New 创建一个尚未启动的 Application。
func New() *Application {
	return &Application{}
}

// Run 完成启动流程：加载配置、初始化日志、注册指标，
// 并按配置决定是否立即自检全部算法。
//
// 配置文件路径的解析优先级：
//  1. 默认：./config.yaml（不存在时使用内置默认值）
//  2. 环境变量：SRTP_GARDEN_CONFIG_FILE_PATH
//  3. 命令行：--config <path> 或 --config=<path>
func (a *Application) Run(ctx context.Context) error {
	if err := a.loadConfig(); err != nil {
		return err
	}
	if err := a.initLogging(); err != nil {
		return err
	}
	registerMetricsOnce.Do(func() {
		metrics.Register(metrics.GetRegisterer())
	})

	opts := SelfTestOptions{}
	if a.cfg != nil {
		if err := a.cfg.UnmarshalKey("selftest", &opts); err != nil {
			return errors.Wrap(err, "parse selftest config")
		}
	}
	a.selfTest = cipher.DefaultSelfTestConfig()
	if opts.RandTrials != 0 {
		a.selfTest.RandTrials = opts.RandTrials
	}
	a.selfTest.Debug = opts.Debug

	a.registry = cipher.DefaultRegistry()
	if opts.Startup {
		if err := a.registry.SelfTestAll(ctx, a.selfTest); err != nil {
			return errors.Wrap(err, "startup cipher self-test")
		}
	}
	return nil
}

// Config 返回已加载的配置，可能为 nil。
func (a *Application) Config() *zviper.Config {
	return a.cfg
}

// Registry 返回进程使用的算法注册表。
func (a *Application) Registry() *cipher.Registry {
	if a.registry == nil {
		return cipher.DefaultRegistry()
	}
	return a.registry
}

// SelfTestConfig 返回启动阶段解析出的自检规模。
func (a *Application) SelfTestConfig() cipher.SelfTestConfig {
	return a.selfTest
}

func (a *Application) loadConfig() error {
	configPath := "./config.yaml"
	explicit := false

	if envPath := os.Getenv("SRTP_GARDEN_CONFIG_FILE_PATH"); envPath != "" {
		configPath = envPath
		explicit = true
	}

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--config" {
			if i+1 >= len(args) {
				return errors.New("missing value after --config")
			}
			configPath = args[i+1]
			explicit = true
			i++
			continue
		}
		if strings.HasPrefix(arg, "--config=") {
			if val := strings.TrimPrefix(arg, "--config="); val != "" {
				configPath = val
				explicit = true
			}
		}
	}

	if !explicit {
		if _, err := os.Stat(configPath); err != nil {
			// 默认路径不存在不算错误，全部使用内置默认值。
			return nil
		}
	}

	cfg := zviper.New()
	if err := cfg.LoadFile(configPath); err != nil {
		return errors.Wrapf(err, "load config file %q", configPath)
	}
	a.cfg = cfg
	return nil
}

// initLogging 先依据 SRTP_GARDEN_LOG_* 环境变量建立全局日志器，
// 再允许配置文件 log 段覆盖。
//
// 环境变量：
//   - SRTP_GARDEN_LOG_LEVEL：日志级别（默认 "info"）。
//   - SRTP_GARDEN_LOG_STDOUT：是否输出到标准输出（默认 true）。
//   - SRTP_GARDEN_LOG_FORMAT：日志格式（"console" 或 "json"，默认 "console"）。
//   - SRTP_GARDEN_LOG_FILE_DIR / SRTP_GARDEN_LOG_FILE：文件日志位置，留空关闭。
func (a *Application) initLogging() error {
	cfg := &zlog.Config{
		Level:  getenvDefault("SRTP_GARDEN_LOG_LEVEL", "info"),
		Format: getenvDefault("SRTP_GARDEN_LOG_FORMAT", "console"),
		Stdout: getenvBool("SRTP_GARDEN_LOG_STDOUT", true),
		File: zlog.FileLogConfig{
			RootPath: getenvDefault("SRTP_GARDEN_LOG_FILE_DIR", ""),
			Filename: getenvDefault("SRTP_GARDEN_LOG_FILE", ""),
		},
	}

	if a.cfg != nil {
		if err := a.cfg.UnmarshalKey("log", cfg); err != nil {
			return errors.Wrap(err, "parse log config")
		}
	}

	logger, props, err := zlog.InitLogger(cfg)
	if err != nil {
		return errors.Wrap(err, "init global logger")
	}
	zlog.ReplaceGlobals(logger, props)
	return nil
}

func getenvDefault(key, def string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	return val
}

func getenvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
