// Package handler provides HTTP handlers for the QA service.
package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/remon-rakibul/DueDiligence/internal/qa/biz"
	"github.com/remon-rakibul/DueDiligence/internal/qa/store"
	pkgerrors "github.com/remon-rakibul/DueDiligence/pkg/errors"
	"github.com/remon-rakibul/DueDiligence/pkg/id"
)

// Handler handles QA HTTP requests.
type Handler struct {
	service   *biz.Service
	factory   store.Factory
	vector    store.VectorStore
	uploadDir string
}

// NewHandler creates a new Handler.
func NewHandler(service *biz.Service, factory store.Factory, vector store.VectorStore, uploadDir string) *Handler {
	return &Handler{
		service:   service,
		factory:   factory,
		vector:    vector,
		uploadDir: uploadDir,
	}
}

// SuccessResponse is a standard success response.
type SuccessResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "success", Data: data})
}

// respondAccepted 异步操作统一返回 202 与请求记录。
func respondAccepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, SuccessResponse{Code: 0, Message: "accepted", Data: data})
}

func respondError(c *gin.Context, err error) {
	e := pkgerrors.FromError(err)
	c.JSON(e.HTTPStatus(), ErrorResponse{Code: e.Code, Message: e.MessageEN})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Code: pkgerrors.ErrBadRequest.Code, Message: msg})
}

// saveUpload 将上传内容落盘到上传目录。
// 文件名去除路径成分后截断到 255 字符, 前缀随机 ID 避免并发上传互相覆盖。
func (h *Handler) saveUpload(c *gin.Context, formField string) (path, filename string, err error) {
	fileHeader, err := c.FormFile(formField)
	if err != nil {
		return "", "", pkgerrors.ErrBadRequest.WithMessagef("missing upload file: %v", err)
	}

	filename = sanitizeFilename(fileHeader.Filename)
	if filename == "" {
		return "", "", pkgerrors.ErrBadRequest.WithMessage("invalid filename")
	}

	if err := os.MkdirAll(h.uploadDir, 0o750); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}

	path = filepath.Join(h.uploadDir, id.NewDocumentID()+"_"+filename)
	if err := c.SaveUploadedFile(fileHeader, path); err != nil {
		return "", "", fmt.Errorf("save upload: %w", err)
	}
	return path, filename, nil
}

// sanitizeFilename 去除路径分隔符与父目录引用。
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.NewReplacer("/", "", "\\", "", "..", "").Replace(name)
	name = strings.TrimSpace(name)
	if len(name) > 255 {
		name = name[:255]
	}
	return name
}
