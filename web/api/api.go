package api

import (
	"strings"
	"sync"
	"time"

	"github.com/afumu/codash/internal/config"
	"github.com/afumu/codash/internal/model"
	"github.com/afumu/codash/internal/platform"
	"github.com/afumu/codash/web/export"
	"github.com/spf13/viper"
)

// API 封装了 API 处理器所需的所有依赖。
type API struct {
	Platform *platform.Service
	Export   *export.Service
	Conf     *Config
	started  time.Time
	mu       sync.Mutex
}

type Config struct {
	Version string
	// Viper 为空时禁用在线修改配置
	Viper *viper.Viper
	// Apply 在配置更新后被调用
	Apply func(*config.Config)
}

// NewAPI 创建一个新的 API 处理器。
func NewAPI(svc *platform.Service, conf *Config) *API {
	if conf == nil {
		conf = &Config{}
	}
	return &API{
		Platform: svc,
		Export:   &export.Service{Platform: svc},
		Conf:     conf,
		started:  time.Now(),
	}
}

// legacyNames 兼容旧版 getXxxDetails 路由
var legacyNames = map[string]model.Platform{
	"getleetcodedetails":   model.LeetCode,
	"getcodechefdetails":   model.CodeChef,
	"getcodeforcesdetails": model.Codeforces,
	"getgfgdetails":        model.GFG,
	"gethackerrankdetails": model.HackerRank,
}

// parsePlatform 解析路径中的平台名，也接受旧版路由名。
func parsePlatform(name string) (model.Platform, error) {
	if p, ok := model.ParsePlatform(name); ok {
		return p, nil
	}
	if p, ok := legacyNames[strings.ToLower(name)]; ok {
		return p, nil
	}
	return "", platform.ErrUnknownPlatform
}
