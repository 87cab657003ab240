package store

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus/client/v2/entity"

	"github.com/remon-rakibul/DueDiligence/pkg/component/milvus"
)

// MilvusStore 实现基于 Milvus 的向量存储。
type MilvusStore struct {
	client *milvus.Client
	config *VectorConfig
}

// NewMilvusStore 创建 Milvus 存储实例。
func NewMilvusStore(client *milvus.Client, config *VectorConfig) *MilvusStore {
	return &MilvusStore{client: client, config: config}
}

// EnsureCollection 创建集合, 已存在时为幂等。
func (s *MilvusStore) EnsureCollection(ctx context.Context) error {
	schema := &milvus.CollectionSchema{
		Name:        s.config.Collection,
		Description: "Due-diligence document chunks",
		Dimension:   s.config.Dimension,
		IDMaxLen:    128,
		MetaFields: []milvus.MetaField{
			{Name: "document_id", DataType: entity.FieldTypeVarChar, MaxLen: 64},
			{Name: "filename", DataType: entity.FieldTypeVarChar, MaxLen: 255},
			{Name: "chunk_type", DataType: entity.FieldTypeVarChar, MaxLen: 16},
			{Name: "content", DataType: entity.FieldTypeVarChar, MaxLen: 65535},
			{Name: "locator", DataType: entity.FieldTypeVarChar, MaxLen: 255},
		},
	}
	return s.client.CreateCollection(ctx, schema)
}

// Upsert 以确定性 ID 写入文档块到 Milvus。
func (s *MilvusStore) Upsert(ctx context.Context, chunks []*Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	ids := make([]string, len(chunks))
	embeddings := make([][]float32, len(chunks))
	metadata := map[string][]any{
		"document_id": make([]any, len(chunks)),
		"filename":    make([]any, len(chunks)),
		"chunk_type":  make([]any, len(chunks)),
		"content":     make([]any, len(chunks)),
		"locator":     make([]any, len(chunks)),
	}

	for i, chunk := range chunks {
		ids[i] = chunk.ID
		embeddings[i] = chunk.Embedding
		metadata["document_id"][i] = chunk.DocumentID
		metadata["filename"][i] = chunk.Filename
		metadata["chunk_type"][i] = string(chunk.Type)
		metadata["content"][i] = chunk.Content
		metadata["locator"][i] = chunk.Locator
	}

	data := &milvus.UpsertData{
		IDs:        ids,
		Embeddings: embeddings,
		Metadata:   metadata,
	}

	if err := s.client.Upsert(ctx, s.config.Collection, data); err != nil {
		return fmt.Errorf("failed to upsert into milvus: %w", err)
	}
	return nil
}

// Search 执行向量相似度搜索。
func (s *MilvusStore) Search(ctx context.Context, embedding []float32, topK int) ([]*RetrievedChunk, error) {
	outputFields := []string{"document_id", "filename", "chunk_type", "content", "locator"}
	results, err := s.client.Search(ctx, s.config.Collection, embedding, topK, outputFields)
	if err != nil {
		return nil, fmt.Errorf("failed to search milvus: %w", err)
	}

	retrieved := make([]*RetrievedChunk, len(results))
	for i, r := range results {
		retrieved[i] = &RetrievedChunk{
			ID:         r.ID,
			DocumentID: stringField(r.Metadata, "document_id"),
			Filename:   stringField(r.Metadata, "filename"),
			Type:       ChunkType(stringField(r.Metadata, "chunk_type")),
			Content:    stringField(r.Metadata, "content"),
			Locator:    stringField(r.Metadata, "locator"),
			Score:      r.Score,
		}
	}
	return retrieved, nil
}

// Stats 获取集合统计信息。
func (s *MilvusStore) Stats(ctx context.Context) (int64, error) {
	return s.client.GetCollectionStats(ctx, s.config.Collection)
}

// Close 关闭 Milvus 连接。
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

func stringField(metadata map[string]any, name string) string {
	if v, ok := metadata[name].(string); ok {
		return v
	}
	return ""
}

// 确保 MilvusStore 实现了 VectorStore 接口。
var _ VectorStore = (*MilvusStore)(nil)
