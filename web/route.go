package web

import (
	"net/http"

	"github.com/afumu/codash/web/transport"
	"github.com/gin-gonic/gin"
)

// setupRoutes 初始化所有应用程序路由。
func (s *Service) setupRoutes() {
	v1 := s.router.Group("/api/v1")
	{
		// 系统路由
		system := v1.Group("/system")
		{
			system.GET("/status", s.api.GetSystemStatus)
			system.POST("/config", s.api.UpdateConfig)
		}

		// 单平台路由，:platform 也接受旧版的 getLeetCodeDetails 等名称
		pf := v1.Group("/platform/:platform/:username")
		{
			pf.GET("", s.api.GetDetails)
			pf.GET("/heatmap", s.api.GetHeatmap)
			pf.GET("/heatmap/export", s.api.ExportHeatmap)
		}

		// 总览路由
		v1.GET("/dashboard", s.api.GetDashboard)

		// LeetCode 题库
		lc := v1.Group("/leetcode")
		{
			lc.GET("/questions", s.api.GetQuestions)
			lc.GET("/daily", s.api.GetDailyChallenge)
		}

		v1.GET("/gfg/:username/insights", s.api.GetGFGInsights)
	}

	// 健康检查
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.router.NoRoute(func(c *gin.Context) {
		transport.NotFound(c, "API route not found")
	})
}
