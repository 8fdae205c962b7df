package embedding

import "context"

// Provider generates fixed-dimension text embeddings. Implementations are
// deterministic for a given model version and must accept the empty string
// like any other input (blank pages still get a vector).
type Provider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}
