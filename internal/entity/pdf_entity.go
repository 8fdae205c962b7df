package entity

import (
	"time"

	"github.com/google/uuid"
)

type Pdf struct {
	Id          uuid.UUID
	Name        string
	UploadDate  time.Time
	StoragePath *string
	ImagePrefix *string
	TextPrefix  *string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
