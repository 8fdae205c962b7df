package implementation

import (
	"context"

	"pdf-chatbot-be/internal/entity"
	"pdf-chatbot-be/internal/mapper"
	"pdf-chatbot-be/internal/model"
	"pdf-chatbot-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PageEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PageEmbeddingMapper
}

func NewPageEmbeddingRepository(db *gorm.DB) contract.PageEmbeddingRepository {
	return &PageEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewPageEmbeddingMapper(),
	}
}

func (r *PageEmbeddingRepositoryImpl) Upsert(ctx context.Context, embedding *entity.PageEmbedding) error {
	m := r.mapper.ToModel(embedding)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pdf_id"}, {Name: "page_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"text", "embedding", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *PageEmbeddingRepositoryImpl) CountByPdfId(ctx context.Context, pdfId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PageEmbedding{}).
		Where("pdf_id = ?", pdfId).
		Count(&count).Error
	return count, err
}

func (r *PageEmbeddingRepositoryImpl) DeleteByPdfId(ctx context.Context, pdfId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("pdf_id = ?", pdfId).Delete(&model.PageEmbedding{}).Error
}

func (r *PageEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, pdfId uuid.UUID, embedding []float32, limit int) ([]*contract.ScoredPageEmbedding, error) {
	if limit <= 0 {
		limit = 3
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding <=> query_vector) = cosine_similarity
	type result struct {
		model.PageEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("page_embeddings").
		Select("page_embeddings.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("pdf_id = ?", pdfId).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredPageEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredPageEmbedding{
			Embedding:  r.mapper.ToEntity(&res.PageEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
