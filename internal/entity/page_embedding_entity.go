package entity

import (
	"time"

	"github.com/google/uuid"
)

type PageEmbedding struct {
	Id         uuid.UUID
	PdfId      uuid.UUID
	PageNumber int
	Text       string
	Embedding  []float32
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
