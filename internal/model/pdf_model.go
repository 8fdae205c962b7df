package model

import (
	"time"

	"github.com/google/uuid"
)

type Pdf struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"type:text;not null"`
	UploadDate  time.Time `gorm:"not null"`
	StoragePath *string   `gorm:"type:text"`
	ImagePrefix *string   `gorm:"type:text"`
	TextPrefix  *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Pdf) TableName() string {
	return "pdfs"
}
