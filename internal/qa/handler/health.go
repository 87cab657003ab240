package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Healthz 健康检查: 返回服务状态与向量库块数量。
// 向量库不可达时降级为 503。
func (h *Handler) Healthz(c *gin.Context) {
	chunks, err := h.vector.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"chunks": chunks,
	})
}
