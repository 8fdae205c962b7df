package implementation

import (
	"context"
	"errors"

	"pdf-chatbot-be/internal/entity"
	"pdf-chatbot-be/internal/mapper"
	"pdf-chatbot-be/internal/model"
	"pdf-chatbot-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PdfRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PdfMapper
}

func NewPdfRepository(db *gorm.DB) contract.PdfRepository {
	return &PdfRepositoryImpl{
		db:     db,
		mapper: mapper.NewPdfMapper(),
	}
}

func (r *PdfRepositoryImpl) Create(ctx context.Context, pdf *entity.Pdf) error {
	m := r.mapper.ToModel(pdf)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	// Write back the store-assigned id and timestamps
	*pdf = *r.mapper.ToEntity(m)
	return nil
}

func (r *PdfRepositoryImpl) Update(ctx context.Context, pdf *entity.Pdf) error {
	m := r.mapper.ToModel(pdf)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*pdf = *r.mapper.ToEntity(m)
	return nil
}

func (r *PdfRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Pdf{}, id).Error
}

func (r *PdfRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Pdf, error) {
	var m model.Pdf
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
