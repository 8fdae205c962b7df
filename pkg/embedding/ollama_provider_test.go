package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)

		var req ollamaEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "all-minilm", req.Model)
		assert.Equal(t, "hello", req.Prompt)

		_ = json.NewEncoder(w).Encode(ollamaEmbeddingResponse{
			Embedding: []float64{3, 4, 0},
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "all-minilm", 3)
	vec, err := p.Generate(context.Background(), "hello")
	require.NoError(t, err)

	// Normalized to unit length for cosine distance.
	require.Len(t, vec, 3)
	assert.InDelta(t, 0.6, vec[0], 1e-6)
	assert.InDelta(t, 0.8, vec[1], 1e-6)

	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(magnitude), 1e-6)
}

func TestOllamaGenerateDimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaEmbeddingResponse{
			Embedding: []float64{1, 2},
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "all-minilm", 384)
	_, err := p.Generate(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 384")
}

func TestOllamaGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "all-minilm", 384)
	_, err := p.Generate(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestNewOllamaProviderDefaults(t *testing.T) {
	p := NewOllamaProvider("", "", 0).(*OllamaProvider)
	assert.Equal(t, "http://localhost:11434", p.BaseURL)
	assert.Equal(t, "all-minilm", p.Model)
	assert.Equal(t, 384, p.Dimension())
}

func TestNormalizeVectorZero(t *testing.T) {
	vec := []float32{0, 0, 0}
	assert.Equal(t, vec, normalizeVector(vec))
}
