package biz_test

import (
	"context"
	"hash/fnv"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/remon-rakibul/DueDiligence/internal/qa/store"
	"github.com/remon-rakibul/DueDiligence/pkg/llm"
)

// newTestFactory 基于 sqlite 临时库构建完整的存储工厂。
func newTestFactory(t *testing.T) store.Factory {
	t.Helper()

	path := filepath.Join(t.TempDir(), "qa.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	factory := store.NewFactory(db)
	require.NoError(t, factory.AutoMigrate())
	t.Cleanup(func() { _ = factory.Close() })
	return factory
}

// fakeVectorStore 内存向量库, 检索按块 ID 排序返回。
type fakeVectorStore struct {
	mu        sync.Mutex
	chunks    map[string]*store.Chunk
	searchErr error
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{chunks: make(map[string]*store.Chunk)}
}

func (f *fakeVectorStore) EnsureCollection(_ context.Context) error { return nil }

func (f *fakeVectorStore) Upsert(_ context.Context, chunks []*store.Chunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range chunks {
		f.chunks[c.ID] = c
	}
	return nil
}

func (f *fakeVectorStore) Search(_ context.Context, _ []float32, topK int) ([]*store.RetrievedChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	ids := make([]string, 0, len(f.chunks))
	for id := range f.chunks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*store.RetrievedChunk
	for _, id := range ids {
		if len(out) >= topK {
			break
		}
		c := f.chunks[id]
		out = append(out, &store.RetrievedChunk{
			ID:         c.ID,
			DocumentID: c.DocumentID,
			Filename:   c.Filename,
			Type:       c.Type,
			Content:    c.Content,
			Locator:    c.Locator,
			Score:      1,
		})
	}
	return out, nil
}

func (f *fakeVectorStore) Stats(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.chunks)), nil
}

func (f *fakeVectorStore) Close(_ context.Context) error { return nil }

func (f *fakeVectorStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chunks)
}

// fakeEmbedder 确定性嵌入: 相同文本得到相同向量。
type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = hashVector(text)
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedSingle(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return hashVector(text), nil
}

func (f *fakeEmbedder) Name() string { return "fake" }

func hashVector(text string) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	sum := h.Sum64()

	v := make([]float32, 4)
	for i := range v {
		v[i] = float32((sum>>(i*8))&0xff) + 1
	}
	return v
}

// fakeChat 返回固定应答内容。
type fakeChat struct {
	content string
	err     error
}

func (f *fakeChat) Chat(_ context.Context, _ []llm.Message) (string, error) {
	return f.content, f.err
}

func (f *fakeChat) Generate(_ context.Context, _ string, _ string) (string, error) {
	return f.content, f.err
}

func (f *fakeChat) Name() string { return "fake" }
