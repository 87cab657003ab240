package store

import (
	"context"
)

// ChunkType 标记文档块的粒度。
type ChunkType string

const (
	// ChunkSection 面向上下文检索的粗粒度块 (1000/200)。
	ChunkSection ChunkType = "section"
	// ChunkCitation 面向精确引用的细粒度块 (400/50)。
	ChunkCitation ChunkType = "citation"
)

// Chunk 表示一个待写入向量索引的文档块。
type Chunk struct {
	// ID 确定性主键, 形如 {document_id}_sec_{i} / {document_id}_cit_{i}。
	ID string
	// DocumentID 所属文档 ID。
	DocumentID string
	// Filename 来源文件名。
	Filename string
	// Type 块粒度标记。
	Type ChunkType
	// Content 块文本内容。
	Content string
	// Locator 块在源文档中的位置描述, 可为空。
	Locator string
	// Embedding 嵌入向量。
	Embedding []float32
}

// RetrievedChunk 表示一条检索结果, 近者优先。
type RetrievedChunk struct {
	// ID 文档块 ID。
	ID string
	// DocumentID 所属文档 ID。
	DocumentID string
	// Filename 来源文件名。
	Filename string
	// Type 块粒度标记。
	Type ChunkType
	// Content 块文本内容。
	Content string
	// Locator 块位置描述。
	Locator string
	// Score 相似度分数。
	Score float32
}

// VectorConfig 向量集合配置。
type VectorConfig struct {
	// Collection 集合名称。
	Collection string
	// Dimension 向量维度。
	Dimension int
}

// VectorStore 定义向量存储接口。
type VectorStore interface {
	// EnsureCollection 创建集合, 已存在时为幂等。
	EnsureCollection(ctx context.Context) error

	// Upsert 以确定性 ID 写入文档块, 同 ID 覆盖。
	Upsert(ctx context.Context, chunks []*Chunk) error

	// Search 向量相似度搜索, 返回至多 topK 条结果。
	Search(ctx context.Context, embedding []float32, topK int) ([]*RetrievedChunk, error)

	// Stats 返回集合中的块数量。
	Stats(ctx context.Context) (int64, error)

	// Close 关闭连接。
	Close(ctx context.Context) error
}
