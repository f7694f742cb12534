package api

import (
	"github.com/afumu/codash/internal/model"
	"github.com/afumu/codash/web/transport"
	"github.com/gin-gonic/gin"
)

// GetDashboard 获取多个平台的总览数据，?leetcode=a&codeforces=b
func (a *API) GetDashboard(c *gin.Context) {
	var q transport.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		transport.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	users := make(map[model.Platform]string, len(model.Platforms))
	for key, values := range c.Request.URL.Query() {
		p, ok := model.ParsePlatform(key)
		if !ok || len(values) == 0 || values[0] == "" {
			continue
		}
		users[p] = values[0]
	}

	data, err := a.Platform.GetDashboard(c.Request.Context(), users, q.Spec())
	if err != nil {
		transport.Fail(c, err)
		return
	}
	transport.SendSuccess(c, data)
}
