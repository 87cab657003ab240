package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/remon-rakibul/DueDiligence/internal/model"
	"github.com/remon-rakibul/DueDiligence/internal/qa/biz"
	pkgerrors "github.com/remon-rakibul/DueDiligence/pkg/errors"
)

// GenerateSingle 同步生成单条问题的答案。
func (h *Handler) GenerateSingle(c *gin.Context) {
	questionID, ok := parseID(c.Query("question_id"))
	if !ok {
		respondBadRequest(c, "question_id is required")
		return
	}

	answer, err := h.service.Answers.Generate(c.Request.Context(), questionID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, answer)
}

// GenerateAll 提交整个项目的异步批量答案生成任务。
func (h *Handler) GenerateAll(c *gin.Context) {
	projectID, ok := parseID(c.Query("project_id"))
	if !ok {
		respondBadRequest(c, "project_id is required")
		return
	}

	if _, err := h.service.Projects.Get(c.Request.Context(), projectID); err != nil {
		respondError(c, err)
		return
	}

	request, err := h.service.SubmitGenerateAnswers(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondAccepted(c, request)
}

// answerUpdateRequest 人工评审更新请求体。
type answerUpdateRequest struct {
	Status           *string `json:"status"`
	ManualAnswerText *string `json:"manual_answer_text"`
	HumanAnswerText  *string `json:"human_answer_text"`
}

// UpdateAnswer 应用人工评审更新 (状态流转、人工改写、基准答案)。
func (h *Handler) UpdateAnswer(c *gin.Context) {
	answerID, ok := parseID(c.Query("answer_id"))
	if !ok {
		respondBadRequest(c, "answer_id is required")
		return
	}

	var req answerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	spec := biz.AnswerUpdateSpec{
		ManualText: req.ManualAnswerText,
		HumanText:  req.HumanAnswerText,
	}
	if req.Status != nil {
		status := model.AnswerStatus(*req.Status)
		if !status.Valid() {
			respondError(c, pkgerrors.ErrInvalidParam.WithMessagef("invalid answer status: %s", *req.Status))
			return
		}
		spec.Status = &status
	}

	answer, err := h.service.Answers.Update(c.Request.Context(), answerID, spec)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, answer)
}

// GetAnswerByQuestion 返回问题对应的答案及引用。
func (h *Handler) GetAnswerByQuestion(c *gin.Context) {
	questionID, ok := parseID(c.Param("question_id"))
	if !ok {
		respondBadRequest(c, "invalid question id")
		return
	}

	answer, err := h.service.Answers.GetByQuestion(c.Request.Context(), questionID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, answer)
}

// ListAnswersByProject 返回项目下全部答案, 按问题顺序排列。
func (h *Handler) ListAnswersByProject(c *gin.Context) {
	projectID, ok := parseID(c.Param("project_id"))
	if !ok {
		respondBadRequest(c, "invalid project id")
		return
	}

	answers, err := h.service.Answers.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, answers)
}
