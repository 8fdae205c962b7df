package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GeminiProvider implements Provider with the text-embedding-004 model.
// The requested output dimensionality is forced to the configured store
// dimension so either provider can back the same vector column.
type GeminiProvider struct {
	ApiKey    string
	dimension int
}

func NewGeminiProvider(apiKey string, dimension int) Provider {
	if dimension <= 0 {
		dimension = 384
	}
	return &GeminiProvider{
		ApiKey:    apiKey,
		dimension: dimension,
	}
}

type geminiEmbeddingRequestContentPart struct {
	Text string `json:"text"`
}

type geminiEmbeddingRequestContent struct {
	Parts []geminiEmbeddingRequestContentPart `json:"parts"`
}

type geminiEmbeddingRequest struct {
	Model                string                        `json:"model"`
	Content              geminiEmbeddingRequestContent `json:"content"`
	OutputDimensionality int                           `json:"outputDimensionality"`
}

type geminiEmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type geminiEmbeddingResponse struct {
	Embedding geminiEmbeddingResponseEmbedding `json:"embedding"`
}

func (p *GeminiProvider) Dimension() int {
	return p.dimension
}

func (p *GeminiProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	modelName := "text-embedding-004"

	geminiReq := geminiEmbeddingRequest{
		Model: "models/" + modelName,
		Content: geminiEmbeddingRequestContent{
			Parts: []geminiEmbeddingRequestContentPart{
				{Text: text},
			},
		},
		OutputDimensionality: p.dimension,
	}
	geminiReqJson, err := json.Marshal(geminiReq)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:embedContent",
		modelName,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(geminiReqJson))
	if err != nil {
		return nil, err
	}

	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from gemini response, code %d, body %s", res.StatusCode, string(resByte))
	}

	var resEmbedding geminiEmbeddingResponse
	if err := json.Unmarshal(resByte, &resEmbedding); err != nil {
		return nil, err
	}

	if len(resEmbedding.Embedding.Values) != p.dimension {
		return nil, fmt.Errorf("gemini returned %d dimensions, expected %d", len(resEmbedding.Embedding.Values), p.dimension)
	}

	// Truncated Gemini embeddings are not unit length; renormalize for
	// cosine search in pgvector.
	return normalizeVector(resEmbedding.Embedding.Values), nil
}
