package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/config"
)

func newTestEmbedder(t *testing.T, handler http.HandlerFunc) *OpenAICompatEmbedder {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	embedder, err := NewOpenAICompatEmbedder(config.EmbeddingConfig{
		APIKey:     "test-key",
		Model:      "text-embedding-v3",
		Dimensions: 4,
		BaseURL:    server.URL,
	})
	require.NoError(t, err)
	return embedder
}

func TestEmbedStrings(t *testing.T) {
	embedder := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		resp := map[string]interface{}{
			"object": "list",
			"data": []map[string]interface{}{
				{"object": "embedding", "embedding": []float64{0, 1, 0, 0}, "index": 1},
				{"object": "embedding", "embedding": []float64{1, 0, 0, 0}, "index": 0},
			},
			"model": "text-embedding-v3",
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	vectors, err := embedder.EmbedStrings(context.Background(), []string{"golang", "python"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	// 结果必须按index归位
	assert.Equal(t, []float64{1, 0, 0, 0}, vectors[0])
	assert.Equal(t, []float64{0, 1, 0, 0}, vectors[1])
}

func TestEmbedStringsEmptyInput(t *testing.T) {
	embedder := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("空输入不应触发HTTP调用")
	})

	vectors, err := embedder.EmbedStrings(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestEmbedStringsAPIError(t *testing.T) {
	embedder := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "rate limit", "type": "quota"})
	})

	_, err := embedder.EmbedStrings(context.Background(), []string{"a"})
	assert.Error(t, err)
}

func TestMeanPool(t *testing.T) {
	pooled := MeanPool([][]float64{
		{1, 0, 2},
		{3, 2, 0},
	})
	assert.Equal(t, []float64{2, 1, 1}, pooled)
}

func TestMeanPoolEmpty(t *testing.T) {
	assert.Empty(t, MeanPool(nil))
}
