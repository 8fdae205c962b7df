package dto

import "github.com/google/uuid"

type AskRequest struct {
	Question    string `json:"question" validate:"required"`
	PdfId       string `json:"pdf_id" validate:"required,uuid"`
	MatchCount  int    `json:"match_count" validate:"omitempty,min=1,max=20"`
	GeminiModel string `json:"gemini_model"`
}

type MatchDTO struct {
	Answer     string    `json:"answer"`
	PageNumber int       `json:"page_number"`
	PdfId      uuid.UUID `json:"pdf_id"`
	Similarity float64   `json:"similarity"`
}

type AskResponse struct {
	RagAnswer string     `json:"rag_answer"`
	Matches   []MatchDTO `json:"matches"`
}
