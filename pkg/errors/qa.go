package errors

import (
	"net/http"
)

// QA 服务领域错误码 (Service: 20)
var (
	// ErrRequestNotFound indicates the async request record does not exist.
	ErrRequestNotFound = Register(&Errno{
		Code:      MakeCode(ServiceQA, CategoryResource, 0),
		HTTP:      http.StatusNotFound,
		MessageEN: "Request not found",
		MessageZH: "请求记录不存在",
	})

	// ErrProjectNotFound indicates the project does not exist.
	ErrProjectNotFound = Register(&Errno{
		Code:      MakeCode(ServiceQA, CategoryResource, 1),
		HTTP:      http.StatusNotFound,
		MessageEN: "Project not found",
		MessageZH: "项目不存在",
	})

	// ErrQuestionNotFound indicates the question does not exist.
	ErrQuestionNotFound = Register(&Errno{
		Code:      MakeCode(ServiceQA, CategoryResource, 2),
		HTTP:      http.StatusNotFound,
		MessageEN: "Question not found",
		MessageZH: "问题不存在",
	})

	// ErrAnswerNotFound indicates the answer does not exist.
	ErrAnswerNotFound = Register(&Errno{
		Code:      MakeCode(ServiceQA, CategoryResource, 3),
		HTTP:      http.StatusNotFound,
		MessageEN: "Answer not found",
		MessageZH: "答案不存在",
	})

	// ErrDocumentNotFound indicates the document registry entry does not exist.
	ErrDocumentNotFound = Register(&Errno{
		Code:      MakeCode(ServiceQA, CategoryResource, 4),
		HTTP:      http.StatusNotFound,
		MessageEN: "Document not found",
		MessageZH: "文档不存在",
	})

	// ErrEvaluationRunNotFound indicates the evaluation run does not exist.
	ErrEvaluationRunNotFound = Register(&Errno{
		Code:      MakeCode(ServiceQA, CategoryResource, 5),
		HTTP:      http.StatusNotFound,
		MessageEN: "Evaluation run not found",
		MessageZH: "评估运行不存在",
	})

	// ErrEmptyDocument indicates the source document yielded no text.
	ErrEmptyDocument = Register(&Errno{
		Code:      MakeCode(ServiceQA, CategoryRequest, 0),
		HTTP:      http.StatusBadRequest,
		MessageEN: "Document contains no extractable text",
		MessageZH: "文档未提取到任何文本",
	})

	// ErrUnsupportedFormat indicates an unsupported document format.
	ErrUnsupportedFormat = Register(&Errno{
		Code:      MakeCode(ServiceQA, CategoryRequest, 1),
		HTTP:      http.StatusBadRequest,
		MessageEN: "Unsupported document format",
		MessageZH: "不支持的文档格式",
	})

	// ErrEmptyQuestionnaire indicates the questionnaire text produced no questions.
	ErrEmptyQuestionnaire = Register(&Errno{
		Code:      MakeCode(ServiceQA, CategoryRequest, 2),
		HTTP:      http.StatusBadRequest,
		MessageEN: "No questions could be parsed from questionnaire",
		MessageZH: "问卷中未解析出任何问题",
	})

	// ErrInvalidTransition indicates an illegal status transition.
	ErrInvalidTransition = Register(&Errno{
		Code:      MakeCode(ServiceQA, CategoryConflict, 0),
		HTTP:      http.StatusConflict,
		MessageEN: "Illegal status transition",
		MessageZH: "非法状态流转",
	})

	// ErrLLMProvider indicates a chat or embedding provider failure.
	ErrLLMProvider = Register(&Errno{
		Code:      MakeCode(ServiceQA, CategoryNetwork, 0),
		HTTP:      http.StatusBadGateway,
		MessageEN: "LLM provider request failed",
		MessageZH: "大模型服务请求失败",
	})

	// ErrVectorStore indicates a vector store failure.
	ErrVectorStore = Register(&Errno{
		Code:      MakeCode(ServiceQA, CategoryDatabase, 0),
		HTTP:      http.StatusInternalServerError,
		MessageEN: "Vector store operation failed",
		MessageZH: "向量库操作失败",
	})
)
