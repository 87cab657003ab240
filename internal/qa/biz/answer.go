package biz

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kart-io/logger"
	"gorm.io/gorm"

	"github.com/remon-rakibul/DueDiligence/internal/model"
	"github.com/remon-rakibul/DueDiligence/internal/pkg/qa/textutil"
	"github.com/remon-rakibul/DueDiligence/internal/qa/store"
	pkgerrors "github.com/remon-rakibul/DueDiligence/pkg/errors"
	"github.com/remon-rakibul/DueDiligence/pkg/llm"
	"github.com/remon-rakibul/DueDiligence/pkg/utils/json"
)

// answerSystemPrompt 约束模型只依据给定上下文作答并输出结构化 JSON。
const answerSystemPrompt = `Answer the question using ONLY the provided context. If the context does not contain enough information, set "answerable" to false.
Output a JSON object with keys: "answer" (string), "answerable" (boolean), "confidence" (float 0-1), "citations" (array of {"chunk_id": "...", "snippet": "..."}).`

// noRelevantDocuments 检索为空时的占位答案文本。
const noRelevantDocuments = "No relevant documents found."

// maxSnippetLen 引用片段的最大长度（Unicode 字符数）。
const maxSnippetLen = 2000

var (
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	bareJSONRe   = regexp.MustCompile(`(?s)\{.*\}`)
)

// AnswerConfig 答案生成配置。
type AnswerConfig struct {
	// TopK 检索的上下文块数
	TopK int
}

// DefaultAnswerConfig returns the standard retrieval settings.
func DefaultAnswerConfig() *AnswerConfig {
	return &AnswerConfig{TopK: 6}
}

// AnswerService 负责答案的生成、评审更新与查询。
type AnswerService struct {
	factory  store.Factory
	vector   store.VectorStore
	embedder llm.EmbeddingProvider
	chat     llm.ChatProvider
	config   *AnswerConfig
}

// NewAnswerService creates an AnswerService with the given dependencies.
func NewAnswerService(factory store.Factory, vector store.VectorStore, embedder llm.EmbeddingProvider, chat llm.ChatProvider, config *AnswerConfig) *AnswerService {
	if config == nil {
		config = DefaultAnswerConfig()
	}
	return &AnswerService{
		factory:  factory,
		vector:   vector,
		embedder: embedder,
		chat:     chat,
		config:   config,
	}
}

// Generate 为一条问题生成答案: 检索上下文、调用大模型、解析结构化
// 输出并落库。旧答案与新答案的替换在同一事务内完成。
// 检索不到任何文档时写入不可回答的占位答案。
func (s *AnswerService) Generate(ctx context.Context, questionID int64) (*model.Answer, error) {
	question, err := s.factory.Questions().Get(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrQuestionNotFound
		}
		return nil, err
	}

	embedding, err := s.embedder.EmbedSingle(ctx, question.Text)
	if err != nil {
		return nil, pkgerrors.ErrLLMProvider.WithCause(err)
	}

	chunks, err := s.vector.Search(ctx, embedding, s.config.TopK)
	if err != nil {
		return nil, pkgerrors.ErrVectorStore.WithCause(err)
	}

	var answer *model.Answer
	if len(chunks) == 0 {
		answer = &model.Answer{
			QuestionID: question.ID,
			Status:     model.AnswerPending,
			AIText:     noRelevantDocuments,
			Answerable: false,
			Confidence: 0,
		}
	} else {
		answer, err = s.generateFromChunks(ctx, question, chunks)
		if err != nil {
			return nil, err
		}
	}

	// 旧答案删除与新答案写入原子完成, 保证每个问题至多一条答案
	err = s.factory.Tx(ctx, func(f store.Factory) error {
		if err := f.Answers().DeleteByQuestion(ctx, question.ID); err != nil {
			return err
		}
		return f.Answers().Create(ctx, answer)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("Answer generated",
		"question_id", question.ID,
		"answerable", answer.Answerable,
		"confidence", answer.Confidence,
		"citations", len(answer.Citations),
	)
	return answer, nil
}

// generateFromChunks 基于检索结果调用大模型并解析为答案记录。
func (s *AnswerService) generateFromChunks(ctx context.Context, question *model.Question, chunks []*store.RetrievedChunk) (*model.Answer, error) {
	prompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s\n\nOutput JSON only.", buildContext(chunks), question.Text)

	content, err := s.chat.Generate(ctx, prompt, answerSystemPrompt)
	if err != nil {
		return nil, pkgerrors.ErrLLMProvider.WithCause(err)
	}

	parsed := parseAnswerJSON(content)

	answer := &model.Answer{
		QuestionID: question.ID,
		Status:     model.AnswerPending,
		AIText:     parsed.Answer,
		Answerable: parsed.Answerable,
		Confidence: clamp01(parsed.Confidence),
	}

	docID := firstDocumentID(chunks)
	for i, c := range parsed.Citations {
		chunkID := c.ChunkID
		if chunkID == "" {
			chunkID = c.ID
		}
		answer.Citations = append(answer.Citations, model.Citation{
			ChunkID:    chunkID,
			DocumentID: docID,
			Snippet:    textutil.TruncateString(c.Snippet, maxSnippetLen),
			Locator:    locatorFor(chunks, chunkID),
			OrderIndex: i,
		})
	}

	return answer, nil
}

// RegenerateAll 重新生成项目下全部答案。项目进入 GENERATING,
// 问题按 order_index 逐条生成 (每条独立事务), 全部成功后进入 COMPLETE。
// 任一问题失败时立即返回错误, 由调用方决定项目的失败状态。
func (s *AnswerService) RegenerateAll(ctx context.Context, projectID int64) error {
	project, err := s.factory.Projects().Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.ErrProjectNotFound
		}
		return err
	}

	if !project.Status.CanTransitionTo(model.ProjectGenerating) {
		return pkgerrors.ErrInvalidTransition.WithMessagef(
			"project %d cannot start generation from status %s", projectID, project.Status)
	}
	if err := s.factory.Projects().UpdateStatus(ctx, projectID, model.ProjectGenerating); err != nil {
		return err
	}

	questions, err := s.factory.Questions().ListByProject(ctx, projectID)
	if err != nil {
		return err
	}

	logger.Infof("Generating answers for project %d: %d questions", projectID, len(questions))

	for _, q := range questions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.Generate(ctx, q.ID); err != nil {
			return fmt.Errorf("generate answer for question %d: %w", q.ID, err)
		}
	}

	return s.factory.Projects().UpdateStatus(ctx, projectID, model.ProjectComplete)
}

// AnswerUpdateSpec 答案评审更新参数, nil 字段表示不修改。
type AnswerUpdateSpec struct {
	Status     *model.AnswerStatus
	ManualText *string
	HumanText  *string
}

// Update 应用人工评审更新。状态流转受枚举约束;
// 置为 MANUAL_UPDATED 时展示文本切换为人工改写文本。
func (s *AnswerService) Update(ctx context.Context, answerID int64, spec AnswerUpdateSpec) (*model.Answer, error) {
	answer, err := s.factory.Answers().Get(ctx, answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrAnswerNotFound
		}
		return nil, err
	}

	if spec.ManualText != nil {
		answer.ManualText = *spec.ManualText
	}
	if spec.HumanText != nil {
		answer.HumanText = *spec.HumanText
	}
	if spec.Status != nil {
		if !answer.Status.CanTransitionTo(*spec.Status) {
			return nil, pkgerrors.ErrInvalidTransition.WithMessagef(
				"answer %d cannot move from %s to %s", answerID, answer.Status, *spec.Status)
		}
		answer.Status = *spec.Status
	}

	if err := s.factory.Answers().Update(ctx, answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// GetByQuestion 返回问题对应的答案及其引用。
func (s *AnswerService) GetByQuestion(ctx context.Context, questionID int64) (*model.Answer, error) {
	answer, err := s.factory.Answers().GetByQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrAnswerNotFound
		}
		return nil, err
	}
	return answer, nil
}

// ListByProject 返回项目下全部答案, 按问题顺序排列。
func (s *AnswerService) ListByProject(ctx context.Context, projectID int64) ([]*model.Answer, error) {
	return s.factory.Answers().ListByProject(ctx, projectID)
}

// buildContext 将检索块拼接为带编号前缀的上下文。
func buildContext(chunks []*store.RetrievedChunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = fmt.Sprintf("[chunk_%d]\n%s", i, c.Content)
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// llmAnswer 模型结构化输出。
type llmAnswer struct {
	Answer     string        `json:"answer"`
	Answerable bool          `json:"answerable"`
	Confidence float64       `json:"confidence"`
	Citations  []llmCitation `json:"citations"`
}

type llmCitation struct {
	ChunkID string `json:"chunk_id"`
	ID      string `json:"id"`
	Snippet string `json:"snippet"`
}

// parseAnswerJSON 从模型输出中提取 JSON 对象。
// 依次尝试围栏代码块、裸 JSON 对象; 都失败时将原文整体作为答案。
func parseAnswerJSON(content string) *llmAnswer {
	content = strings.TrimSpace(content)

	var candidate string
	if m := fencedJSONRe.FindStringSubmatch(content); m != nil {
		candidate = m[1]
	} else if m := bareJSONRe.FindString(content); m != "" {
		candidate = m
	}

	if candidate != "" {
		parsed := &llmAnswer{Answerable: true, Confidence: 0.5}
		if err := json.Unmarshal([]byte(candidate), parsed); err == nil {
			return parsed
		}
	}

	return &llmAnswer{
		Answer:     content,
		Answerable: true,
		Confidence: 0.5,
	}
}

// firstDocumentID 返回检索结果中第一个带文档 ID 的块的文档 ID。
func firstDocumentID(chunks []*store.RetrievedChunk) string {
	for _, c := range chunks {
		if c.DocumentID != "" {
			return c.DocumentID
		}
	}
	return ""
}

// locatorFor 根据块 ID 回查检索结果中的位置描述。
func locatorFor(chunks []*store.RetrievedChunk, chunkID string) string {
	for _, c := range chunks {
		if c.ID == chunkID {
			return c.Locator
		}
	}
	return ""
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
