// Package qa provides the due-diligence QA service application.
package qa

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/remon-rakibul/DueDiligence/pkg/component/mysql"
	llmopts "github.com/remon-rakibul/DueDiligence/pkg/options/llm"
	logopts "github.com/remon-rakibul/DueDiligence/pkg/options/logger"
	milvusopts "github.com/remon-rakibul/DueDiligence/pkg/options/milvus"
	redisopts "github.com/remon-rakibul/DueDiligence/pkg/options/redis"
	httpopts "github.com/remon-rakibul/DueDiligence/pkg/options/server/http"
)

// 关系库驱动。sqlite 便于本地开发与测试, mysql 用于部署。
const (
	StoreDriverMySQL  = "mysql"
	StoreDriverSQLite = "sqlite"
)

// StoreOptions 关系存储配置。
type StoreOptions struct {
	// Driver 数据库驱动 (mysql, sqlite)。
	Driver string `json:"driver" mapstructure:"driver"`

	// MySQL MySQL 连接配置, driver=mysql 时生效。
	MySQL *mysql.Options `json:"mysql" mapstructure:"mysql"`

	// SQLitePath sqlite 数据文件路径, driver=sqlite 时生效。
	SQLitePath string `json:"sqlite-path" mapstructure:"sqlite-path"`
}

// NewStoreOptions 创建默认关系存储配置。
func NewStoreOptions() *StoreOptions {
	return &StoreOptions{
		Driver:     StoreDriverSQLite,
		MySQL:      mysql.NewOptions(),
		SQLitePath: "_output/qa.db",
	}
}

// AddFlags adds store flags to the flagset.
func (o *StoreOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Driver, "store.driver", o.Driver, "Relational store driver (mysql, sqlite)")
	fs.StringVar(&o.SQLitePath, "store.sqlite-path", o.SQLitePath, "SQLite database file path")
	o.MySQL.AddFlags(fs, "store.mysql")
}

// Validate validates the store options.
func (o *StoreOptions) Validate() error {
	switch o.Driver {
	case StoreDriverMySQL:
		return o.MySQL.Validate()
	case StoreDriverSQLite:
		if o.SQLitePath == "" {
			return fmt.Errorf("store.sqlite-path is required for sqlite driver")
		}
		return nil
	default:
		return fmt.Errorf("unsupported store driver: %s", o.Driver)
	}
}

// QAOptions 问答流水线配置。
type QAOptions struct {
	// Collection 向量集合名称。
	Collection string `json:"collection" mapstructure:"collection"`

	// EmbeddingDim 嵌入向量维度。
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`

	// TopK 生成答案时检索的上下文块数。
	TopK int `json:"top-k" mapstructure:"top-k"`

	// SectionChunkSize 检索块大小。
	SectionChunkSize int `json:"section-chunk-size" mapstructure:"section-chunk-size"`

	// SectionOverlap 检索块重叠。
	SectionOverlap int `json:"section-overlap" mapstructure:"section-overlap"`

	// CitationChunkSize 引用块大小。
	CitationChunkSize int `json:"citation-chunk-size" mapstructure:"citation-chunk-size"`

	// CitationOverlap 引用块重叠。
	CitationOverlap int `json:"citation-overlap" mapstructure:"citation-overlap"`

	// UploadDir 上传文件暂存目录。
	UploadDir string `json:"upload-dir" mapstructure:"upload-dir"`

	// JobTimeout 单个异步任务的最长执行时间。
	JobTimeout time.Duration `json:"job-timeout" mapstructure:"job-timeout"`
}

// NewQAOptions 创建默认问答流水线配置。
func NewQAOptions() *QAOptions {
	return &QAOptions{
		Collection:        "qa_chunks",
		EmbeddingDim:      768, // nomic-embed-text dimension
		TopK:              6,
		SectionChunkSize:  1000,
		SectionOverlap:    200,
		CitationChunkSize: 400,
		CitationOverlap:   50,
		UploadDir:         filepath.Join(os.TempDir(), "qa-uploads"),
		JobTimeout:        30 * time.Minute,
	}
}

// AddFlags adds QA pipeline flags to the flagset.
func (o *QAOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Collection, "qa.collection", o.Collection, "Vector collection name")
	fs.IntVar(&o.EmbeddingDim, "qa.embedding-dim", o.EmbeddingDim, "Embedding vector dimension")
	fs.IntVar(&o.TopK, "qa.top-k", o.TopK, "Number of context chunks retrieved per question")
	fs.IntVar(&o.SectionChunkSize, "qa.section-chunk-size", o.SectionChunkSize, "Size of retrieval chunks")
	fs.IntVar(&o.SectionOverlap, "qa.section-overlap", o.SectionOverlap, "Overlap between retrieval chunks")
	fs.IntVar(&o.CitationChunkSize, "qa.citation-chunk-size", o.CitationChunkSize, "Size of citation chunks")
	fs.IntVar(&o.CitationOverlap, "qa.citation-overlap", o.CitationOverlap, "Overlap between citation chunks")
	fs.StringVar(&o.UploadDir, "qa.upload-dir", o.UploadDir, "Directory for staged uploads")
	fs.DurationVar(&o.JobTimeout, "qa.job-timeout", o.JobTimeout, "Maximum runtime of one async job")
}

// Validate validates the QA pipeline options.
func (o *QAOptions) Validate() error {
	if o.Collection == "" {
		return fmt.Errorf("qa.collection is required")
	}
	if o.EmbeddingDim <= 0 {
		return fmt.Errorf("qa.embedding-dim must be positive")
	}
	if o.TopK <= 0 {
		return fmt.Errorf("qa.top-k must be positive")
	}
	if o.SectionChunkSize <= 0 || o.CitationChunkSize <= 0 {
		return fmt.Errorf("chunk sizes must be positive")
	}
	if o.SectionOverlap >= o.SectionChunkSize || o.CitationOverlap >= o.CitationChunkSize {
		return fmt.Errorf("chunk overlap must be smaller than chunk size")
	}
	return nil
}

// CacheOptions Embedding 结果缓存配置。
type CacheOptions struct {
	// Enabled 是否启用缓存。
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// TTL 缓存过期时间。
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// KeyPrefix 缓存键前缀。
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`

	// Redis Redis 连接配置。
	Redis *redisopts.Options `json:"redis" mapstructure:"redis"`
}

// NewCacheOptions 创建默认缓存配置。
func NewCacheOptions() *CacheOptions {
	return &CacheOptions{
		Enabled:   true,
		TTL:       24 * time.Hour,
		KeyPrefix: "emb:",
		Redis:     redisopts.NewOptions(),
	}
}

// AddFlags adds cache flags to the flagset.
func (o *CacheOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Enabled, "cache.enabled", o.Enabled, "Enable embedding result cache")
	fs.DurationVar(&o.TTL, "cache.ttl", o.TTL, "Cache TTL duration")
	fs.StringVar(&o.KeyPrefix, "cache.key-prefix", o.KeyPrefix, "Cache key prefix")
	o.Redis.AddFlags(fs)
}

// Options contains all QA Service options.
type Options struct {
	// HTTP contains HTTP server configuration.
	HTTP *httpopts.Options `json:"http" mapstructure:"http"`

	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Store contains relational store configuration.
	Store *StoreOptions `json:"store" mapstructure:"store"`

	// Milvus contains Milvus database configuration.
	Milvus *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// Embedding contains embedding provider configuration.
	Embedding *llmopts.ProviderOptions `json:"embedding" mapstructure:"embedding"`

	// Chat contains chat provider configuration.
	Chat *llmopts.ProviderOptions `json:"chat" mapstructure:"chat"`

	// Cache contains embedding cache configuration.
	Cache *CacheOptions `json:"cache" mapstructure:"cache"`

	// QA contains QA pipeline configuration.
	QA *QAOptions `json:"qa" mapstructure:"qa"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	httpOpts := httpopts.NewOptions()
	httpOpts.Addr = ":8100"

	return &Options{
		HTTP:      httpOpts,
		Log:       logopts.NewOptions(),
		Store:     NewStoreOptions(),
		Milvus:    milvusopts.NewOptions(),
		Embedding: llmopts.NewEmbeddingOptions(),
		Chat:      llmopts.NewChatOptions(),
		Cache:     NewCacheOptions(),
		QA:        NewQAOptions(),
	}
}

// AddFlags adds all flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.HTTP.AddFlags(fs)
	o.Log.AddFlags(fs)
	o.Store.AddFlags(fs)
	o.Milvus.AddFlags(fs)
	o.addEmbeddingFlags(fs)
	o.addChatFlags(fs)
	o.Cache.AddFlags(fs)
	o.QA.AddFlags(fs)
}

func (o *Options) addEmbeddingFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Embedding.Provider, "embedding.provider", o.Embedding.Provider, "Embedding provider (ollama, openai)")
	fs.StringVar(&o.Embedding.BaseURL, "embedding.base-url", o.Embedding.BaseURL, "Embedding API base URL")
	fs.StringVar(&o.Embedding.APIKey, "embedding.api-key", o.Embedding.APIKey, "Embedding API key (for OpenAI)")
	fs.StringVar(&o.Embedding.Model, "embedding.model", o.Embedding.Model, "Embedding model name")
	fs.DurationVar(&o.Embedding.Timeout, "embedding.timeout", o.Embedding.Timeout, "Embedding request timeout")
	fs.IntVar(&o.Embedding.MaxRetries, "embedding.max-retries", o.Embedding.MaxRetries, "Embedding max retries")
}

func (o *Options) addChatFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Chat.Provider, "chat.provider", o.Chat.Provider, "Chat provider (ollama, openai)")
	fs.StringVar(&o.Chat.BaseURL, "chat.base-url", o.Chat.BaseURL, "Chat API base URL")
	fs.StringVar(&o.Chat.APIKey, "chat.api-key", o.Chat.APIKey, "Chat API key (for OpenAI)")
	fs.StringVar(&o.Chat.Model, "chat.model", o.Chat.Model, "Chat model name")
	fs.DurationVar(&o.Chat.Timeout, "chat.timeout", o.Chat.Timeout, "Chat request timeout")
	fs.IntVar(&o.Chat.MaxRetries, "chat.max-retries", o.Chat.MaxRetries, "Chat max retries")
}

// Validate validates all options.
func (o *Options) Validate() error {
	if err := o.Log.Validate(); err != nil {
		return err
	}
	if errs := o.HTTP.Validate(); len(errs) > 0 {
		return errs[0]
	}
	if err := o.Store.Validate(); err != nil {
		return err
	}
	if errs := o.Milvus.Validate(); len(errs) > 0 {
		return errs[0]
	}
	if errs := o.Embedding.Validate(); len(errs) > 0 {
		return errs[0]
	}
	if errs := o.Chat.Validate(); len(errs) > 0 {
		return errs[0]
	}
	if o.Cache.Enabled {
		if err := o.Cache.Redis.Validate(); err != nil {
			return err
		}
	}
	return o.QA.Validate()
}

// Complete completes the options.
func (o *Options) Complete() error {
	if err := o.HTTP.Complete(); err != nil {
		return err
	}
	if err := o.Embedding.Complete(); err != nil {
		return err
	}
	return o.Chat.Complete()
}
