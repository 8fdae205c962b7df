package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type PageEmbedding struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PdfId      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_page_embeddings_pdf_page"`
	PageNumber int             `gorm:"not null;uniqueIndex:idx_page_embeddings_pdf_page"`
	Text       string          `gorm:"type:text"`
	Embedding  pgvector.Vector `gorm:"type:vector(384)"` // all-MiniLM class sentence embeddings use 384 dimensions
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

func (PageEmbedding) TableName() string {
	return "page_embeddings"
}
