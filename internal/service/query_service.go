package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pdf-chatbot-be/internal/dto"
	"pdf-chatbot-be/internal/pkg/logger"
	"pdf-chatbot-be/internal/repository/contract"
	"pdf-chatbot-be/pkg/answer"
	"pdf-chatbot-be/pkg/embedding"

	"github.com/google/uuid"
)

const moduleQuery = "query"

const (
	defaultMatchCount = 3
	searchTimeout     = 60 * time.Second
)

type IQueryService interface {
	// Ask embeds the question, retrieves the most similar pages of the
	// named document and synthesizes a grounded answer over them.
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
}

type queryService struct {
	pdfRepo      contract.PdfRepository
	embedRepo    contract.PageEmbeddingRepository
	embedder     embedding.Provider
	synthesizer  answer.AnswerSynthesizer
	defaultModel string
	log          logger.ILogger
}

func NewQueryService(
	pdfRepo contract.PdfRepository,
	embedRepo contract.PageEmbeddingRepository,
	embedder embedding.Provider,
	synthesizer answer.AnswerSynthesizer,
	defaultModel string,
	log logger.ILogger,
) IQueryService {
	return &queryService{
		pdfRepo:      pdfRepo,
		embedRepo:    embedRepo,
		embedder:     embedder,
		synthesizer:  synthesizer,
		defaultModel: defaultModel,
		log:          log,
	}
}

func (s *queryService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	pdfId, err := uuid.Parse(req.PdfId)
	if err != nil {
		return nil, fmt.Errorf("invalid pdf_id: %w", err)
	}

	pdf, err := s.pdfRepo.FindById(ctx, pdfId)
	if err != nil {
		return nil, err
	}
	if pdf == nil {
		return nil, ErrPdfNotFound
	}

	matchCount := req.MatchCount
	if matchCount <= 0 {
		matchCount = defaultMatchCount
	}
	model := req.GeminiModel
	if model == "" {
		model = s.defaultModel
	}

	queryVector, err := s.embedder.Generate(ctx, req.Question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	searchCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	scored, err := s.embedRepo.SearchSimilarWithScore(searchCtx, pdfId, queryVector, matchCount)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	matches := make([]dto.MatchDTO, 0, len(scored))
	contextParts := make([]string, 0, len(scored))
	for _, hit := range scored {
		matches = append(matches, dto.MatchDTO{
			Answer:     hit.Embedding.Text,
			PageNumber: hit.Embedding.PageNumber,
			PdfId:      hit.Embedding.PdfId,
			Similarity: hit.Similarity,
		})
		contextParts = append(contextParts, hit.Embedding.Text)
	}

	if len(matches) == 0 {
		s.log.Info(moduleQuery, "no similar pages found", map[string]interface{}{
			"pdf_id": pdfId, "match_count": matchCount,
		})
	}

	ragAnswer := s.synthesizer.Synthesize(ctx, req.Question, strings.Join(contextParts, "\n\n"), model)

	return &dto.AskResponse{
		RagAnswer: ragAnswer,
		Matches:   matches,
	}, nil
}
