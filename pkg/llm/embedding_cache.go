package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/remon-rakibul/DueDiligence/pkg/utils/json"
)

// EmbeddingCacheConfig Embedding 缓存配置。
type EmbeddingCacheConfig struct {
	// Enabled 是否启用缓存。
	Enabled bool
	// TTL 缓存过期时间。
	TTL time.Duration
	// KeyPrefix 缓存键前缀。
	KeyPrefix string
}

// DefaultEmbeddingCacheConfig 返回默认的 Embedding 缓存配置。
func DefaultEmbeddingCacheConfig() *EmbeddingCacheConfig {
	return &EmbeddingCacheConfig{
		Enabled:   true,
		TTL:       24 * time.Hour, // Embedding 结果相对稳定，可以缓存更长时间
		KeyPrefix: "emb:",
	}
}

// CachedEmbeddingProvider 提供 Embedding 缓存功能的包装器。
// 摄取与评估路径都会反复嵌入相同文本, 缓存可显著减少供应商调用。
type CachedEmbeddingProvider struct {
	provider EmbeddingProvider
	redis    *goredis.Client
	config   *EmbeddingCacheConfig
}

// NewCachedEmbeddingProvider 创建带缓存的 Embedding Provider。
func NewCachedEmbeddingProvider(
	provider EmbeddingProvider,
	redis *goredis.Client,
	config *EmbeddingCacheConfig,
) *CachedEmbeddingProvider {
	if config == nil {
		config = DefaultEmbeddingCacheConfig()
	}
	return &CachedEmbeddingProvider{
		provider: provider,
		redis:    redis,
		config:   config,
	}
}

// generateCacheKey 基于文本生成缓存键（使用 SHA256 哈希）。
func (c *CachedEmbeddingProvider) generateCacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return c.config.KeyPrefix + hex.EncodeToString(hash[:])
}

// EmbedSingle 生成单个文本的 Embedding（带缓存）。
func (c *CachedEmbeddingProvider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	if !c.config.Enabled || c.redis == nil {
		return c.provider.EmbedSingle(ctx, text)
	}

	cacheKey := c.generateCacheKey(text)

	data, err := c.redis.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var embedding []float32
		if err := json.Unmarshal(data, &embedding); err == nil {
			logger.Debugw("embedding cache hit", "text_length", len(text), "key", cacheKey)
			return embedding, nil
		}
		// 反序列化失败，删除损坏的缓存
		logger.Warnw("failed to unmarshal cached embedding, deleting", "error", err.Error(), "key", cacheKey)
		_ = c.redis.Del(ctx, cacheKey).Err()
	} else if err != goredis.Nil {
		logger.Warnw("redis get error, falling back to provider", "error", err.Error())
	}

	embedding, err := c.provider.EmbedSingle(ctx, text)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(embedding)
	if err != nil {
		logger.Warnw("failed to marshal embedding for caching", "error", err.Error())
		return embedding, nil
	}

	if err := c.redis.Set(ctx, cacheKey, data, c.config.TTL).Err(); err != nil {
		logger.Warnw("failed to cache embedding", "error", err.Error(), "key", cacheKey)
	}

	return embedding, nil
}

// Embed 批量生成 Embedding（带缓存）。
// 只把未命中的文本发给底层 provider, 保持返回顺序与输入一致。
func (c *CachedEmbeddingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if !c.config.Enabled || c.redis == nil {
		return c.provider.Embed(ctx, texts)
	}

	embeddings := make([][]float32, len(texts))
	uncachedIndices := []int{}
	uncachedTexts := []string{}

	for i, text := range texts {
		cacheKey := c.generateCacheKey(text)
		data, err := c.redis.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var embedding []float32
			if err := json.Unmarshal(data, &embedding); err == nil {
				embeddings[i] = embedding
				continue
			}
			_ = c.redis.Del(ctx, cacheKey).Err()
		}

		uncachedIndices = append(uncachedIndices, i)
		uncachedTexts = append(uncachedTexts, text)
	}

	if len(uncachedTexts) > 0 {
		logger.Infow("embedding cache miss (batch)", "total", len(texts), "uncached", len(uncachedTexts))
		uncachedEmbeddings, err := c.provider.Embed(ctx, uncachedTexts)
		if err != nil {
			return nil, err
		}

		for i, idx := range uncachedIndices {
			embeddings[idx] = uncachedEmbeddings[i]

			cacheKey := c.generateCacheKey(uncachedTexts[i])
			data, err := json.Marshal(uncachedEmbeddings[i])
			if err != nil {
				logger.Warnw("failed to marshal embedding for caching", "error", err.Error())
				continue
			}

			if err := c.redis.Set(ctx, cacheKey, data, c.config.TTL).Err(); err != nil {
				logger.Warnw("failed to cache embedding", "error", err.Error(), "key", cacheKey)
			}
		}
	} else {
		logger.Infow("all embeddings from cache", "total", len(texts))
	}

	return embeddings, nil
}

// Name 返回底层 provider 的名称。
func (c *CachedEmbeddingProvider) Name() string {
	return c.provider.Name() + "-cached"
}

// ClearCache 清除所有 Embedding 缓存。
func (c *CachedEmbeddingProvider) ClearCache(ctx context.Context) error {
	if !c.config.Enabled || c.redis == nil {
		return nil
	}

	pattern := c.config.KeyPrefix + "*"
	iter := c.redis.Scan(ctx, 0, pattern, 0).Iterator()

	deletedCount := 0
	for iter.Next(ctx) {
		if err := c.redis.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warnw("failed to delete cache key", "error", err.Error(), "key", iter.Val())
		} else {
			deletedCount++
		}
	}

	if err := iter.Err(); err != nil {
		logger.Warnw("error during cache scan", "error", err.Error())
		return err
	}

	logger.Infow("cleared embedding cache", "deleted_count", deletedCount)
	return nil
}

// 确保 CachedEmbeddingProvider 实现了 EmbeddingProvider 接口。
var _ EmbeddingProvider = (*CachedEmbeddingProvider)(nil)
