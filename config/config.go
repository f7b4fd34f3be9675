package config

import (
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config serve 模式的运行配置。配置文件缺省时全部走默认值，serve 必须可零配置启动
type Config struct {
	Addr     string `mapstructure:"addr"`
	LogFile  string `mapstructure:"logFile"`
	LogLevel string `mapstructure:"logLevel"`
	ReplayMs int    `mapstructure:"replayMs"` // 回放步进间隔（毫秒）
	Autoplay bool   `mapstructure:"autoplay"` // 会话创建后是否自动开始回放
}

// ReplayInterval 回放间隔的 Duration 视图
func (c *Config) ReplayInterval() time.Duration {
	return time.Duration(c.ReplayMs) * time.Millisecond
}

// Default 内置默认值
func Default() *Config {
	return &Config{
		Addr:     ":8080",
		LogFile:  "mjlog-parser.log",
		LogLevel: "info",
		ReplayMs: 200,
		Autoplay: true,
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("logFile", d.LogFile)
	v.SetDefault("logLevel", d.LogLevel)
	v.SetDefault("replayMs", d.ReplayMs)
	v.SetDefault("autoplay", d.Autoplay)
	v.SetEnvPrefix("MJLOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if path != "" {
		v.SetConfigFile(path)
	}
	return v
}

// Load 读取配置文件并合并环境变量（MJLOG_ 前缀）。path 为空时只用默认值与环境变量
func Load(path string) (*Config, error) {
	v := newViper(path)
	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Watch 监听配置文件变更，变更后重新解析并回调（用于热更新回放默认值）
func Watch(path string, onChange func(*Config)) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	v.OnConfigChange(func(in fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			return
		}
		onChange(&cfg)
	})
	v.WatchConfig()
	return nil
}
