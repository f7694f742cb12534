package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/afumu/codash/internal/activity"
	"github.com/afumu/codash/internal/model"
	"github.com/afumu/codash/internal/platform"
	"github.com/afumu/codash/internal/source"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const defaultListenAddr = "127.0.0.1:5200"

// Config 是服务的全部配置，来自 .env 文件和环境变量。
type Config struct {
	ListenAddr    string  `mapstructure:"LISTEN_ADDR"`
	Port          string  `mapstructure:"PORT"`
	LogLevel      string  `mapstructure:"LOG_LEVEL"`
	LogFormat     string  `mapstructure:"LOG_FORMAT"`
	UserAgent     string  `mapstructure:"USER_AGENT"`
	OutboundRPS   float64 `mapstructure:"OUTBOUND_RPS"`
	OutboundBurst int     `mapstructure:"OUTBOUND_BURST"`
	GFGAPIBase    string  `mapstructure:"GFG_API_BASE"`
	LeetCodeAPI   string  `mapstructure:"LEETCODE_CALENDAR_API"`

	HTTPTimeout time.Duration `mapstructure:"-"`
	Tuning      platform.Tuning `mapstructure:"-"`
}

// New 创建读取 path 的 viper 实例并注册默认值。
func New(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	ep := source.DefaultEndpoints()
	v.SetDefault("LISTEN_ADDR", "")
	v.SetDefault("PORT", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("HTTP_TIMEOUT", source.DefaultTimeout.String())
	v.SetDefault("USER_AGENT", source.DefaultUserAgent)
	v.SetDefault("OUTBOUND_RPS", 5)
	v.SetDefault("OUTBOUND_BURST", 5)
	v.SetDefault("GFG_API_BASE", ep.GFGAPI)
	v.SetDefault("LEETCODE_CALENDAR_API", ep.LeetCodeCalendarAPI)
	for _, p := range model.Platforms {
		v.SetDefault(intensityKey(p), activity.DefaultThresholds(p).String())
		v.SetDefault(graceKey(p), activity.DefaultGraceDays)
	}
	return v
}

// Read 读取配置文件。文件不存在时写出一份默认配置，读取失败时只使用默认值和环境变量。
func Read(v *viper.Viper) {
	err := v.ReadInConfig()
	if err == nil {
		return
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
		if err := v.SafeWriteConfigAs(v.ConfigFileUsed()); err != nil {
			log.Warn().Err(err).Msg("无法创建默认 .env 文件")
		} else {
			log.Info().Msg("已自动创建并初始化 .env 配置文件")
		}
		return
	}
	log.Warn().Err(err).Msg("读取 .env 文件出错，将使用默认值或环境变量")
}

// Parse 把 viper 中的值解析为 Config。非法的分档和宽限天数回退到平台默认值。
func Parse(v *viper.Viper) (*Config, error) {
	conf := &Config{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// 端口配置：优先使用 LISTEN_ADDR，其次使用 PORT
	if conf.ListenAddr == "" {
		if conf.Port != "" {
			conf.ListenAddr = "127.0.0.1:" + conf.Port
		} else {
			conf.ListenAddr = defaultListenAddr
		}
	}

	timeout, err := parseTimeout(v.GetString("HTTP_TIMEOUT"))
	if err != nil {
		log.Warn().Err(err).Msg("HTTP_TIMEOUT 无效，使用默认值")
		timeout = source.DefaultTimeout
	}
	conf.HTTPTimeout = timeout

	conf.Tuning = platform.DefaultTuning()
	for _, p := range model.Platforms {
		if raw := v.GetString(intensityKey(p)); raw != "" {
			th, err := activity.ParseThresholds(raw)
			if err != nil {
				log.Warn().Err(err).Str("platform", string(p)).Msg("强度分档无效，使用默认值")
			} else {
				conf.Tuning.Thresholds[p] = th
			}
		}
		grace, err := cast.ToIntE(v.Get(graceKey(p)))
		if err != nil || grace < 0 {
			log.Warn().Str("platform", string(p)).Str("value", v.GetString(graceKey(p))).Msg("宽限天数无效，使用默认值")
			continue
		}
		conf.Tuning.GraceDays[p] = grace
	}
	return conf, nil
}

// Endpoints 返回应用了配置覆盖的外部地址。
func (c *Config) Endpoints() source.Endpoints {
	ep := source.DefaultEndpoints()
	if c.GFGAPIBase != "" {
		ep.GFGAPI = strings.TrimRight(c.GFGAPIBase, "/")
	}
	if c.LeetCodeAPI != "" {
		ep.LeetCodeCalendarAPI = c.LeetCodeAPI
	}
	return ep
}

// ClientConfig 返回出站客户端配置。
func (c *Config) ClientConfig() source.ClientConfig {
	return source.ClientConfig{
		Timeout:   c.HTTPTimeout,
		UserAgent: c.UserAgent,
		RPS:       c.OutboundRPS,
		Burst:     c.OutboundBurst,
	}
}

// Watch 在配置文件变化时重新解析并调用 apply。解析失败时保留旧配置。
func Watch(v *viper.Viper, apply func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		conf, err := Parse(v)
		if err != nil {
			log.Error().Err(err).Str("file", e.Name).Msg("重新加载配置失败，保留当前配置")
			return
		}
		log.Info().Str("file", e.Name).Msg("配置已重新加载")
		apply(conf)
	})
	v.WatchConfig()
}

// parseTimeout 接受 "10s" 这样的时长，也接受按秒计的纯数字。
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return source.DefaultTimeout, nil
	}
	if secs, err := cast.ToFloat64E(raw); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("timeout %q must be positive", raw)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("timeout %q: %w", raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout %q must be positive", raw)
	}
	return d, nil
}

func intensityKey(p model.Platform) string {
	return "INTENSITY_" + strings.ToUpper(string(p))
}

func graceKey(p model.Platform) string {
	return "STREAK_GRACE_" + strings.ToUpper(string(p))
}
