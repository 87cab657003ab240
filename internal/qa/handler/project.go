package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/remon-rakibul/DueDiligence/internal/qa/biz"
)

// parseID 解析路径或查询中的数字 ID。
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

// CreateProject 接收问卷文件并提交异步项目创建任务。
func (h *Handler) CreateProject(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		respondBadRequest(c, "name is required")
		return
	}

	path, filename, err := h.saveUpload(c, "file")
	if err != nil {
		respondError(c, err)
		return
	}

	request, err := h.service.SubmitCreateProject(c.Request.Context(), path, filename, name)
	if err != nil {
		respondError(c, err)
		return
	}
	respondAccepted(c, request)
}

// UpdateProject 提交异步项目更新任务。
// 项目必须存在且至少提供 name 或 scope 之一。
func (h *Handler) UpdateProject(c *gin.Context) {
	projectID, ok := parseID(c.Query("project_id"))
	if !ok {
		respondBadRequest(c, "project_id is required")
		return
	}

	if _, err := h.service.Projects.Get(c.Request.Context(), projectID); err != nil {
		respondError(c, err)
		return
	}

	var spec biz.UpdateSpec
	if name := strings.TrimSpace(c.PostForm("name")); name != "" {
		spec.Name = &name
	}
	if scope := strings.TrimSpace(c.PostForm("scope")); scope != "" {
		spec.Scope = &scope
	}
	if spec.Name == nil && spec.Scope == nil {
		respondBadRequest(c, "provide at least one of name or scope")
		return
	}

	request, err := h.service.SubmitUpdateProject(c.Request.Context(), projectID, spec)
	if err != nil {
		respondError(c, err)
		return
	}
	respondAccepted(c, request)
}

// ListProjects 返回全部项目, 按创建时间倒序。
func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.service.Projects.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, projects)
}

// GetProject 返回项目详情及其有序问题列表。
func (h *Handler) GetProject(c *gin.Context) {
	projectID, ok := parseID(c.Param("id"))
	if !ok {
		respondBadRequest(c, "invalid project id")
		return
	}

	project, err := h.service.Projects.GetWithQuestions(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, project)
}

// GetProjectStatus 返回项目当前状态, 供前端轮询。
func (h *Handler) GetProjectStatus(c *gin.Context) {
	projectID, ok := parseID(c.Param("id"))
	if !ok {
		respondBadRequest(c, "invalid project id")
		return
	}

	project, err := h.service.Projects.Get(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"project_id": project.ID, "status": project.Status})
}
