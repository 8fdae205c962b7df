package mapper

import (
	"time"

	"pdf-chatbot-be/internal/entity"
	"pdf-chatbot-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type PageEmbeddingMapper struct{}

func NewPageEmbeddingMapper() *PageEmbeddingMapper {
	return &PageEmbeddingMapper{}
}

func (m *PageEmbeddingMapper) ToEntity(e *model.PageEmbedding) *entity.PageEmbedding {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.PageEmbedding{
		Id:         e.Id,
		PdfId:      e.PdfId,
		PageNumber: e.PageNumber,
		Text:       e.Text,
		Embedding:  e.Embedding.Slice(),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *PageEmbeddingMapper) ToModel(e *entity.PageEmbedding) *model.PageEmbedding {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.PageEmbedding{
		Id:         e.Id,
		PdfId:      e.PdfId,
		PageNumber: e.PageNumber,
		Text:       e.Text,
		Embedding:  pgvector.NewVector(e.Embedding),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *PageEmbeddingMapper) ToEntities(embeddings []*model.PageEmbedding) []*entity.PageEmbedding {
	entities := make([]*entity.PageEmbedding, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
