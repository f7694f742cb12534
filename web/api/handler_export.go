package api

import (
	"errors"

	"github.com/afumu/codash/web/export"
	"github.com/afumu/codash/web/transport"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ExportHeatmap 导出热力图为 csv 或 xlsx 文件
func (a *API) ExportHeatmap(c *gin.Context) {
	p, err := parsePlatform(c.Param("platform"))
	if err != nil {
		transport.Fail(c, err)
		return
	}

	var q transport.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		transport.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	file, err := a.Export.ExportHeatmap(c.Request.Context(), p, c.Param("username"), q.Spec(), q.Format)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			transport.BadRequest(c, "format 只支持 csv 或 xlsx")
			return
		}
		if transport.StatusFor(err) >= 500 {
			log.Error().Err(err).Msg("导出热力图失败")
		}
		transport.Fail(c, err)
		return
	}

	transport.SendAttachment(c, file.Name, file.ContentType, file.ETag, file.Content)
}
