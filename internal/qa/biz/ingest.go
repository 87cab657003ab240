package biz

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kart-io/logger"

	"github.com/remon-rakibul/DueDiligence/internal/model"
	"github.com/remon-rakibul/DueDiligence/internal/pkg/qa/extract"
	"github.com/remon-rakibul/DueDiligence/internal/pkg/qa/textutil"
	"github.com/remon-rakibul/DueDiligence/internal/qa/store"
	pkgerrors "github.com/remon-rakibul/DueDiligence/pkg/errors"
	"github.com/remon-rakibul/DueDiligence/pkg/id"
	"github.com/remon-rakibul/DueDiligence/pkg/llm"
)

// IngesterConfig 文档摄取配置。
type IngesterConfig struct {
	// SectionChunkSize 检索块大小（Unicode 字符数）
	SectionChunkSize int
	// SectionOverlap 检索块重叠
	SectionOverlap int
	// CitationChunkSize 引用块大小
	CitationChunkSize int
	// CitationOverlap 引用块重叠
	CitationOverlap int
	// EmbedBatchSize 每批嵌入的文本数
	EmbedBatchSize int
}

// DefaultIngesterConfig returns the standard dual-granularity settings.
func DefaultIngesterConfig() *IngesterConfig {
	return &IngesterConfig{
		SectionChunkSize:  1000,
		SectionOverlap:    200,
		CitationChunkSize: 400,
		CitationOverlap:   50,
		EmbedBatchSize:    32,
	}
}

// IngestResult 摄取完成后的统计信息。
type IngestResult struct {
	DocumentID       string `json:"document_id"`
	SectionCount     int    `json:"section_count"`
	CitationCount    int    `json:"citation_count"`
	OutdatedProjects int64  `json:"-"`
}

// Ingester 将上传文档转换为双粒度向量块并登记到文档注册表。
type Ingester struct {
	factory  store.Factory
	vector   store.VectorStore
	embedder llm.EmbeddingProvider
	config   *IngesterConfig
}

// NewIngester creates an Ingester with the given stores and embedder.
func NewIngester(factory store.Factory, vector store.VectorStore, embedder llm.EmbeddingProvider, config *IngesterConfig) *Ingester {
	if config == nil {
		config = DefaultIngesterConfig()
	}
	return &Ingester{
		factory:  factory,
		vector:   vector,
		embedder: embedder,
		config:   config,
	}
}

// Ingest 摄取一份文档: 抽取文本后交给 IngestText。
func (ing *Ingester) Ingest(ctx context.Context, filePath, filename, documentID string) (*IngestResult, error) {
	text, err := extract.Text(filePath, filename)
	if err != nil {
		return nil, err
	}
	return ing.IngestText(ctx, text, filename, documentID)
}

// IngestText 摄取已抽取的文本: 双粒度切分、嵌入、写入向量库,
// 再在同一事务中登记文档并将 ALL_DOCS 项目标记为 OUTDATED。
// documentID 为空时生成新的 UUID; 传入已有 ID 则覆盖对应向量块。
func (ing *Ingester) IngestText(ctx context.Context, text, filename, documentID string) (*IngestResult, error) {
	if documentID == "" {
		documentID = id.NewDocumentID()
	}

	if strings.TrimSpace(text) == "" {
		return nil, pkgerrors.ErrEmptyDocument.WithMessagef("document %s contains no extractable text", filename)
	}

	sections := textutil.SplitText(text, ing.config.SectionChunkSize, ing.config.SectionOverlap)
	citations := textutil.SplitText(text, ing.config.CitationChunkSize, ing.config.CitationOverlap)
	if len(sections) == 0 {
		return nil, pkgerrors.ErrEmptyDocument.WithMessagef("document %s produced no chunks", filename)
	}

	logger.Infof("Ingesting document %s (%s): %d section chunks, %d citation chunks",
		documentID, filename, len(sections), len(citations))

	chunks := make([]*store.Chunk, 0, len(sections)+len(citations))
	for i, content := range sections {
		chunks = append(chunks, &store.Chunk{
			ID:         fmt.Sprintf("%s_sec_%d", documentID, i),
			DocumentID: documentID,
			Filename:   filename,
			Type:       store.ChunkSection,
			Content:    content,
			Locator:    strconv.Itoa(i),
		})
	}
	for i, content := range citations {
		chunks = append(chunks, &store.Chunk{
			ID:         fmt.Sprintf("%s_cit_%d", documentID, i),
			DocumentID: documentID,
			Filename:   filename,
			Type:       store.ChunkCitation,
			Content:    content,
			Locator:    strconv.Itoa(i),
		})
	}

	if err := ing.embedChunks(ctx, chunks); err != nil {
		return nil, err
	}

	if err := ing.vector.EnsureCollection(ctx); err != nil {
		return nil, pkgerrors.ErrVectorStore.WithCause(err)
	}
	if err := ing.vector.Upsert(ctx, chunks); err != nil {
		return nil, pkgerrors.ErrVectorStore.WithCause(err)
	}

	result := &IngestResult{
		DocumentID:    documentID,
		SectionCount:  len(sections),
		CitationCount: len(citations),
	}

	// 登记文档与失效 ALL_DOCS 项目必须原子完成
	err := ing.factory.Tx(ctx, func(f store.Factory) error {
		if err := f.Documents().Upsert(ctx, &model.DocumentRegistry{
			DocumentID:    documentID,
			Filename:      filename,
			SectionCount:  len(sections),
			CitationCount: len(citations),
		}); err != nil {
			return err
		}

		outdated, err := f.Projects().MarkAllDocsOutdated(ctx)
		if err != nil {
			return err
		}
		result.OutdatedProjects = outdated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.OutdatedProjects > 0 {
		logger.Infow("Marked projects outdated after ingest",
			"document_id", documentID,
			"projects", result.OutdatedProjects,
		)
	}
	logger.Infof("Document %s ingested: %d sections, %d citations", documentID, len(sections), len(citations))

	return result, nil
}

// embedChunks 分批生成向量并写回 chunk。
func (ing *Ingester) embedChunks(ctx context.Context, chunks []*store.Chunk) error {
	batchSize := ing.config.EmbedBatchSize
	if batchSize <= 0 {
		batchSize = 32
	}

	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		embeddings, err := ing.embedder.Embed(ctx, texts)
		if err != nil {
			return pkgerrors.ErrLLMProvider.WithCause(err)
		}
		if len(embeddings) != len(batch) {
			return pkgerrors.ErrLLMProvider.WithMessagef(
				"embedding count mismatch: got %d, want %d", len(embeddings), len(batch))
		}
		for i, emb := range embeddings {
			batch[i].Embedding = emb
		}
	}

	return nil
}
