package api

import (
	"github.com/afumu/codash/web/transport"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// GetHeatmap 获取单个平台用户的热力图和统计
func (a *API) GetHeatmap(c *gin.Context) {
	p, err := parsePlatform(c.Param("platform"))
	if err != nil {
		transport.Fail(c, err)
		return
	}

	var q transport.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		transport.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	bundle, err := a.Platform.GetHeatmap(c.Request.Context(), p, c.Param("username"), q.Spec())
	if err != nil {
		transport.Fail(c, err)
		return
	}
	transport.SendSuccess(c, bundle)
}

// GetDetails 获取单个平台用户的资料、扩展数据和热力图。
// 旧版的 /platform/getLeetCodeDetails/:username 也由这里处理。
func (a *API) GetDetails(c *gin.Context) {
	p, err := parsePlatform(c.Param("platform"))
	if err != nil {
		transport.Fail(c, err)
		return
	}

	var q transport.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		transport.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	username := c.Param("username")
	details, err := a.Platform.GetDetails(c.Request.Context(), p, username, q.Spec())
	if err != nil {
		if transport.StatusFor(err) >= 500 {
			log.Error().Err(err).Str("platform", string(p)).Str("username", username).Msg("获取用户详情失败")
		}
		transport.Fail(c, err)
		return
	}
	transport.SendSuccess(c, details)
}
