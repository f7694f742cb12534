package api

import (
	"github.com/afumu/codash/web/transport"
	"github.com/gin-gonic/gin"
)

// GetGFGInsights 获取 GFG 用户的学习洞察
func (a *API) GetGFGInsights(c *gin.Context) {
	insights, err := a.Platform.GFGInsights(c.Request.Context(), c.Param("username"))
	if err != nil {
		transport.Fail(c, err)
		return
	}
	transport.SendSuccess(c, insights)
}
