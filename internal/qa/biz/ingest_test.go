package biz_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remon-rakibul/DueDiligence/internal/model"
	"github.com/remon-rakibul/DueDiligence/internal/qa/biz"
	pkgerrors "github.com/remon-rakibul/DueDiligence/pkg/errors"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestIngestRegistersDocument(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	vector := newFakeVectorStore()
	ingester := biz.NewIngester(factory, vector, &fakeEmbedder{}, nil)

	content := strings.Repeat("Due diligence requires careful document review. ", 60)
	path := writeTempFile(t, "policy.txt", content)

	result, err := ingester.Ingest(ctx, path, "policy.txt", "")
	require.NoError(t, err)
	require.NotEmpty(t, result.DocumentID)
	assert.Positive(t, result.SectionCount)
	assert.Positive(t, result.CitationCount)
	// 细粒度块不少于粗粒度块
	assert.GreaterOrEqual(t, result.CitationCount, result.SectionCount)
	assert.Equal(t, result.SectionCount+result.CitationCount, vector.count())

	doc, err := factory.Documents().Get(ctx, result.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "policy.txt", doc.Filename)
	assert.Equal(t, result.SectionCount, doc.SectionCount)
	assert.Equal(t, result.CitationCount, doc.CitationCount)
}

func TestIngestReusesGivenDocumentID(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	vector := newFakeVectorStore()
	ingester := biz.NewIngester(factory, vector, &fakeEmbedder{}, nil)

	path := writeTempFile(t, "short.txt", "A single short paragraph about compliance matters.")

	result, err := ingester.Ingest(ctx, path, "short.txt", "doc-42")
	require.NoError(t, err)
	assert.Equal(t, "doc-42", result.DocumentID)

	// 重新摄取同一 ID 应覆盖而不是累积
	before := vector.count()
	result2, err := ingester.Ingest(ctx, path, "short.txt", "doc-42")
	require.NoError(t, err)
	assert.Equal(t, "doc-42", result2.DocumentID)
	assert.Equal(t, before, vector.count())

	docs, err := factory.Documents().List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestIngestMarksAllDocsProjectsOutdated(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	ingester := biz.NewIngester(factory, newFakeVectorStore(), &fakeEmbedder{}, nil)

	project := &model.Project{Name: "vendor review", Scope: model.ScopeAllDocs, Status: model.ProjectReady}
	require.NoError(t, factory.Projects().Create(ctx, project))

	path := writeTempFile(t, "contract.txt", "The supplier agrees to annual security audits of all facilities.")
	result, err := ingester.Ingest(ctx, path, "contract.txt", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.OutdatedProjects)

	got, err := factory.Projects().Get(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectOutdated, got.Status)
}

func TestIngestEmptyDocument(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	ingester := biz.NewIngester(factory, newFakeVectorStore(), &fakeEmbedder{}, nil)

	path := writeTempFile(t, "empty.txt", "   \n\n  ")
	_, err := ingester.Ingest(ctx, path, "empty.txt", "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrEmptyDocument.Code))
}

func TestIngestDeterministicChunkIDs(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	vector := newFakeVectorStore()
	ingester := biz.NewIngester(factory, vector, &fakeEmbedder{}, nil)

	path := writeTempFile(t, "note.txt", "Board approval is required for related-party transactions.")
	result, err := ingester.Ingest(ctx, path, "note.txt", "doc-ids")
	require.NoError(t, err)

	chunks, err := vector.Search(ctx, nil, result.SectionCount+result.CitationCount)
	require.NoError(t, err)

	var sections, citations int
	for _, c := range chunks {
		switch {
		case strings.HasPrefix(c.ID, "doc-ids_sec_"):
			sections++
		case strings.HasPrefix(c.ID, "doc-ids_cit_"):
			citations++
		default:
			t.Fatalf("unexpected chunk id %q", c.ID)
		}
	}
	assert.Equal(t, result.SectionCount, sections)
	assert.Equal(t, result.CitationCount, citations)
}
