package contract

import (
	"context"

	"pdf-chatbot-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredPageEmbedding pairs a stored page with its cosine similarity to a query.
type ScoredPageEmbedding struct {
	Embedding  *entity.PageEmbedding
	Similarity float64
}

type PageEmbeddingRepository interface {
	// Upsert writes the embedding for (pdf_id, page_number), overwriting
	// any previous row for the same key. Re-ingestion never duplicates.
	Upsert(ctx context.Context, embedding *entity.PageEmbedding) error
	CountByPdfId(ctx context.Context, pdfId uuid.UUID) (int64, error)
	DeleteByPdfId(ctx context.Context, pdfId uuid.UUID) error
	// SearchSimilarWithScore returns up to limit pages of the given
	// document ordered by descending cosine similarity. Never returns
	// pages of another document.
	SearchSimilarWithScore(ctx context.Context, pdfId uuid.UUID, embedding []float32, limit int) ([]*ScoredPageEmbedding, error)
}
