package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/afumu/codash/internal/config"
	"github.com/afumu/codash/internal/model"
	"github.com/afumu/codash/web/transport"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// GetSystemStatus 返回服务版本、支持的平台和当前分档配置
func (a *API) GetSystemStatus(c *gin.Context) {
	tuning := a.Platform.Tuning()
	thresholds := make(map[model.Platform]string, len(tuning.Thresholds))
	for p, th := range tuning.Thresholds {
		thresholds[p] = th.String()
	}

	transport.SendSuccess(c, gin.H{
		"version":    a.Conf.Version,
		"uptime":     time.Since(a.started).Round(time.Second).String(),
		"platforms":  model.Platforms,
		"thresholds": thresholds,
		"graceDays":  tuning.GraceDays,
	})
}

// 允许在线更新的键
func configKeyAllowed(k string) bool {
	switch k {
	case "HTTP_TIMEOUT", "LOG_LEVEL", "OUTBOUND_RPS", "OUTBOUND_BURST":
		return true
	}
	return strings.HasPrefix(k, "INTENSITY_") || strings.HasPrefix(k, "STREAK_GRACE_")
}

// UpdateConfig 更新可在线调整的配置并写回 .env
func (a *API) UpdateConfig(c *gin.Context) {
	v := a.Conf.Viper
	if v == nil {
		transport.SendError(c, http.StatusNotImplemented, "当前实例不支持在线修改配置")
		return
	}

	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		transport.BadRequest(c, "参数错误")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	changed := false
	for k, val := range req {
		k = strings.ToUpper(strings.TrimSpace(k))
		if !configKeyAllowed(k) {
			continue
		}
		v.Set(k, val)
		changed = true
	}
	if !changed {
		transport.BadRequest(c, "没有可更新的配置项")
		return
	}

	conf, err := config.Parse(v)
	if err != nil {
		transport.BadRequest(c, err.Error())
		return
	}

	// 写回启动时指定的配置文件，不存在时创建
	if err := v.WriteConfigAs(v.ConfigFileUsed()); err != nil {
		transport.InternalServerError(c, "保存配置文件失败: "+err.Error())
		return
	}

	if a.Conf.Apply != nil {
		a.Conf.Apply(conf)
	}
	log.Info().Int("keys", len(req)).Msg("配置已更新")

	transport.SendSuccess(c, gin.H{"status": "ok"})
}
