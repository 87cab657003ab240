package qa

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/kart-io/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/remon-rakibul/DueDiligence/internal/qa/biz"
	"github.com/remon-rakibul/DueDiligence/internal/qa/handler"
	"github.com/remon-rakibul/DueDiligence/internal/qa/router"
	"github.com/remon-rakibul/DueDiligence/internal/qa/store"
	"github.com/remon-rakibul/DueDiligence/pkg/component/milvus"
	"github.com/remon-rakibul/DueDiligence/pkg/component/mysql"
	redisclient "github.com/remon-rakibul/DueDiligence/pkg/component/redis"
	"github.com/remon-rakibul/DueDiligence/pkg/infra/app"
	"github.com/remon-rakibul/DueDiligence/pkg/infra/pool"
	"github.com/remon-rakibul/DueDiligence/pkg/llm"

	// 导入 LLM 供应商以自动注册
	_ "github.com/remon-rakibul/DueDiligence/pkg/llm/ollama"
	_ "github.com/remon-rakibul/DueDiligence/pkg/llm/openai"
)

// shutdownTimeout 优雅关闭的最长等待时间。
const shutdownTimeout = 10 * time.Second

// Run runs the QA Service with the given options.
func Run(opts *Options) error {
	printBanner(opts)

	// 1. 初始化日志
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Infow("Starting QA service...", "version", app.GetVersion())

	// 2. 初始化关系存储
	db, dbClose, err := openDatabase(opts.Store)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer dbClose()

	factory := store.NewFactory(db)
	if err := factory.AutoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Infow("Relational store initialized", "driver", opts.Store.Driver)

	// 3. 初始化 Milvus 向量存储
	milvusClient, err := milvus.New(opts.Milvus)
	if err != nil {
		return fmt.Errorf("failed to initialize milvus: %w", err)
	}
	defer func() { _ = milvusClient.Close(context.Background()) }()

	vector := store.NewMilvusStore(milvusClient, &store.VectorConfig{
		Collection: opts.QA.Collection,
		Dimension:  opts.QA.EmbeddingDim,
	})
	if err := vector.EnsureCollection(context.Background()); err != nil {
		return fmt.Errorf("failed to ensure vector collection: %w", err)
	}
	logger.Infow("Vector store initialized",
		"collection", opts.QA.Collection,
		"dimension", opts.QA.EmbeddingDim,
	)

	// 4. 初始化 LLM 供应商
	embedder, err := buildEmbedder(opts)
	if err != nil {
		return err
	}
	logger.Infow("Embedding provider initialized",
		"provider", opts.Embedding.Provider,
		"model", opts.Embedding.Model,
	)

	chatProvider, err := llm.NewChatProvider(opts.Chat.Provider, opts.Chat.ToConfigMap())
	if err != nil {
		return fmt.Errorf("failed to initialize chat provider: %w", err)
	}
	logger.Infow("Chat provider initialized",
		"provider", opts.Chat.Provider,
		"model", opts.Chat.Model,
	)

	// 5. 初始化任务池
	if err := pool.InitGlobal(); err != nil {
		return fmt.Errorf("failed to initialize worker pools: %w", err)
	}
	defer func() { _ = pool.CloseGlobalTimeout(shutdownTimeout) }()

	// 6. 初始化 Biz 层
	ingesterConfig := biz.DefaultIngesterConfig()
	ingesterConfig.SectionChunkSize = opts.QA.SectionChunkSize
	ingesterConfig.SectionOverlap = opts.QA.SectionOverlap
	ingesterConfig.CitationChunkSize = opts.QA.CitationChunkSize
	ingesterConfig.CitationOverlap = opts.QA.CitationOverlap

	service := biz.NewService(factory, vector, embedder, chatProvider, &biz.Config{
		Ingester:     ingesterConfig,
		Answer:       &biz.AnswerConfig{TopK: opts.QA.TopK},
		Orchestrator: &biz.OrchestratorConfig{JobTimeout: opts.QA.JobTimeout},
	})
	logger.Info("QA service initialized")

	// 7. 初始化 Handler 层与路由
	h := handler.NewHandler(service, factory, vector, opts.QA.UploadDir)
	engine := router.New(h)

	// 8. 启动 HTTP 服务器
	srv := &http.Server{
		Addr:         opts.HTTP.Addr,
		Handler:      engine,
		ReadTimeout:  opts.HTTP.ReadTimeout,
		WriteTimeout: opts.HTTP.WriteTimeout,
		IdleTimeout:  opts.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", opts.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case sig := <-quit:
		logger.Infow("Shutting down QA service...", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	logger.Info("QA service stopped")
	return nil
}

// openDatabase 按驱动打开关系库连接。
func openDatabase(opts *StoreOptions) (*gorm.DB, func(), error) {
	switch opts.Driver {
	case StoreDriverMySQL:
		client, err := mysql.New(opts.MySQL)
		if err != nil {
			return nil, nil, err
		}
		return client.DB(), func() { _ = client.Close() }, nil

	case StoreDriverSQLite:
		if dir := filepath.Dir(opts.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, nil, err
			}
		}
		db, err := gorm.Open(sqlite.Open(opts.SQLitePath), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return db, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver: %s", opts.Driver)
	}
}

// buildEmbedder 构建 Embedding Provider, 按配置包装 Redis 缓存。
// Redis 不可达时降级为无缓存直连, 不阻塞启动。
func buildEmbedder(opts *Options) (llm.EmbeddingProvider, error) {
	provider, err := llm.NewEmbeddingProvider(opts.Embedding.Provider, opts.Embedding.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding provider: %w", err)
	}

	if !opts.Cache.Enabled {
		logger.Info("Embedding cache is disabled")
		return provider, nil
	}

	client, err := redisclient.New(opts.Cache.Redis)
	if err != nil {
		logger.Warnw("failed to connect to redis, embedding cache disabled", "error", err.Error())
		return provider, nil
	}

	logger.Infow("Embedding cache initialized",
		"host", opts.Cache.Redis.Host,
		"port", opts.Cache.Redis.Port,
		"ttl", opts.Cache.TTL,
	)
	return llm.NewCachedEmbeddingProvider(provider, client.Client(), &llm.EmbeddingCacheConfig{
		Enabled:   true,
		TTL:       opts.Cache.TTL,
		KeyPrefix: opts.Cache.KeyPrefix,
	}), nil
}
