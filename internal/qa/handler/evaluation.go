package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// RunEvaluation 同步执行一次项目评估。
// use_embeddings 查询参数默认开启语义相似度评分。
func (h *Handler) RunEvaluation(c *gin.Context) {
	projectID, ok := parseID(c.Query("project_id"))
	if !ok {
		respondBadRequest(c, "project_id is required")
		return
	}

	useEmbeddings := true
	if raw := c.Query("use_embeddings"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondBadRequest(c, "invalid use_embeddings value")
			return
		}
		useEmbeddings = parsed
	}

	run, results, err := h.service.Evaluator.Evaluate(c.Request.Context(), projectID, useEmbeddings)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"id":         run.ID,
		"project_id": run.ProjectID,
		"created_at": run.CreatedAt,
		"results":    results,
	})
}

// GetEvaluationReport 返回评估报告。
// run_id 为空时取项目最近一次评估运行。
func (h *Handler) GetEvaluationReport(c *gin.Context) {
	projectID, ok := parseID(c.Query("project_id"))
	if !ok {
		respondBadRequest(c, "project_id is required")
		return
	}

	if _, err := h.service.Projects.Get(c.Request.Context(), projectID); err != nil {
		respondError(c, err)
		return
	}

	report, err := h.service.Evaluator.Report(c.Request.Context(), projectID, c.Query("run_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}
