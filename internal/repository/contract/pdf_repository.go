package contract

import (
	"context"

	"pdf-chatbot-be/internal/entity"

	"github.com/google/uuid"
)

type PdfRepository interface {
	Create(ctx context.Context, pdf *entity.Pdf) error
	Update(ctx context.Context, pdf *entity.Pdf) error
	// Delete removes the metadata row. Used as the compensating action
	// when a fatal ingestion stage fails after the row was created.
	Delete(ctx context.Context, id uuid.UUID) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Pdf, error)
}
