package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadPdfResponse struct {
	Message        string    `json:"message"`
	PdfId          uuid.UUID `json:"pdf_id"`
	PdfName        string    `json:"pdf_name"`
	UploadDate     time.Time `json:"upload_date"`
	StoragePath    string    `json:"storage_path"`
	UploadedImages []string  `json:"uploaded_images"`
	UploadedTexts  []string  `json:"uploaded_texts"`
}

// FileTooLargeResponse is the structured 413 body. It carries enough
// detail (size, limit, remediation) for the caller to act on.
type FileTooLargeResponse struct {
	Error                 string `json:"error"`
	FileSizeMB            string `json:"file_size_mb"`
	SupabaseFreeTierLimit string `json:"supabase_free_tier_limit"`
	Message               string `json:"message"`
	Solution              string `json:"solution"`
}

type ReprocessPdfResponse struct {
	PdfId         uuid.UUID `json:"pdf_id"`
	UploadedTexts []string  `json:"uploaded_texts"`
}
