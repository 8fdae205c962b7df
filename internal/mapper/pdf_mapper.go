package mapper

import (
	"time"

	"pdf-chatbot-be/internal/entity"
	"pdf-chatbot-be/internal/model"
)

type PdfMapper struct{}

func NewPdfMapper() *PdfMapper {
	return &PdfMapper{}
}

func (m *PdfMapper) ToEntity(p *model.Pdf) *entity.Pdf {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Pdf{
		Id:          p.Id,
		Name:        p.Name,
		UploadDate:  p.UploadDate,
		StoragePath: p.StoragePath,
		ImagePrefix: p.ImagePrefix,
		TextPrefix:  p.TextPrefix,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *PdfMapper) ToModel(p *entity.Pdf) *model.Pdf {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Pdf{
		Id:          p.Id,
		Name:        p.Name,
		UploadDate:  p.UploadDate,
		StoragePath: p.StoragePath,
		ImagePrefix: p.ImagePrefix,
		TextPrefix:  p.TextPrefix,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}
