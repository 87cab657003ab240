package handler

import (
	"github.com/gin-gonic/gin"
)

// IndexDocument 接收上传文件并提交异步摄取任务。
// 可选的 document_id 表单字段用于覆盖已有文档的向量块。
func (h *Handler) IndexDocument(c *gin.Context) {
	path, filename, err := h.saveUpload(c, "file")
	if err != nil {
		respondError(c, err)
		return
	}

	documentID := c.PostForm("document_id")

	request, err := h.service.SubmitIndexDocument(c.Request.Context(), path, filename, documentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondAccepted(c, request)
}

// ListDocuments 返回文档注册表, 按入库时间倒序。
func (h *Handler) ListDocuments(c *gin.Context) {
	docs, err := h.factory.Documents().List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, docs)
}
