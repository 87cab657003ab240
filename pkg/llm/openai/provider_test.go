package openai_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remon-rakibul/DueDiligence/pkg/llm"
	"github.com/remon-rakibul/DueDiligence/pkg/llm/openai"
)

func TestNewProviderRequiresAPIKey(t *testing.T) {
	_, err := openai.NewProvider(map[string]any{})
	assert.Error(t, err)
}

func TestEmbedPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		// data 乱序返回, 客户端按 index 归位
		_, _ = w.Write([]byte(`{
			"object": "list",
			"data": [
				{"object": "embedding", "embedding": [0.3, 0.4], "index": 1},
				{"object": "embedding", "embedding": [0.1, 0.2], "index": 0}
			],
			"model": "text-embedding-3-small"
		}`))
	}))
	defer srv.Close()

	p, err := openai.NewProvider(map[string]any{
		"api_key":  "test-key",
		"base_url": srv.URL,
	})
	require.NoError(t, err)

	vecs, err := p.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{0.1, 0.2}, vecs[0])
	assert.Equal(t, []float32{0.3, 0.4}, vecs[1])
}

func TestGenerateSendsSystemPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"answer\":\"yes\"}"}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	p, err := openai.NewProvider(map[string]any{
		"api_key":  "test-key",
		"base_url": srv.URL,
	})
	require.NoError(t, err)

	out, err := p.Generate(context.Background(), "Is the entity regulated?", "You answer in JSON.")
	require.NoError(t, err)
	assert.Equal(t, `{"answer":"yes"}`, out)
}

func TestRegisteredInFactory(t *testing.T) {
	chat, err := llm.NewChatProvider(openai.ProviderName, map[string]any{"api_key": "k"})
	require.NoError(t, err)
	assert.Equal(t, openai.ProviderName, chat.Name())

	embedder, err := llm.NewEmbeddingProvider(openai.ProviderName, map[string]any{"api_key": "k"})
	require.NoError(t, err)
	assert.Equal(t, openai.ProviderName, embedder.Name())
}
