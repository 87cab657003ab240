package handler

import (
	"github.com/gin-gonic/gin"
)

// GetRequest 查询异步请求状态, 供客户端轮询。
func (h *Handler) GetRequest(c *gin.Context) {
	request, err := h.service.Orchestrator.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, request)
}
