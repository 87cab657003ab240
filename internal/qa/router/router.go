// Package router provides QA service routing.
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/remon-rakibul/DueDiligence/internal/qa/handler"
)

// New builds the gin engine with middleware and all QA routes.
func New(h *handler.Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), accessLog(), cors())

	Register(engine, h)
	return engine
}

// Register registers the QA service routes.
func Register(engine *gin.Engine, h *handler.Handler) {
	logger.Info("Registering QA routes...")

	engine.GET("/healthz", h.Healthz)

	api := engine.Group("/api")
	{
		documents := api.Group("/documents")
		{
			documents.POST("/index-async", h.IndexDocument)
			documents.GET("", h.ListDocuments)
		}

		requests := api.Group("/requests")
		{
			requests.GET("/:id", h.GetRequest)
		}

		projects := api.Group("/projects")
		{
			projects.POST("/create-async", h.CreateProject)
			projects.POST("/update-async", h.UpdateProject)
			projects.GET("/list", h.ListProjects)
			projects.GET("/:id", h.GetProject)
			projects.GET("/:id/status", h.GetProjectStatus)
		}

		answers := api.Group("/answers")
		{
			answers.POST("/generate-single", h.GenerateSingle)
			answers.POST("/generate-all-async", h.GenerateAll)
			answers.POST("/update", h.UpdateAnswer)
			answers.GET("/by-question/:question_id", h.GetAnswerByQuestion)
			answers.GET("/by-project/:project_id", h.ListAnswersByProject)
		}

		evaluation := api.Group("/evaluation")
		{
			evaluation.POST("/run", h.RunEvaluation)
			evaluation.GET("/report", h.GetEvaluationReport)
		}
	}

	logger.Info("HTTP routes registered")
}

// accessLog 以结构化字段记录每个请求。
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Infow("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// cors 宽松跨域策略, 前端轮询请求状态时需要。
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
