package transport

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Response 是成功请求的标准化 JSON 响应。
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// SendSuccess 以 200 OK 状态和标准化的 JSON 成功载荷进行响应。
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// SendAttachment 以附件形式返回文件内容。etag 非空时支持 If-None-Match 条件请求。
func SendAttachment(c *gin.Context, filename, contentType, etag string, content []byte) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if etag != "" {
		c.Header("ETag", etag)
	}
	c.Header("Cache-Control", "no-cache")

	// ServeContent 负责 304 和 Range 处理
	http.ServeContent(c.Writer, c.Request, filename, time.Time{}, bytes.NewReader(content))
}
