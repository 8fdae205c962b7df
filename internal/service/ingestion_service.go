package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"pdf-chatbot-be/internal/dto"
	"pdf-chatbot-be/internal/entity"
	"pdf-chatbot-be/internal/pkg/logger"
	"pdf-chatbot-be/internal/repository/contract"
	"pdf-chatbot-be/pkg/embedding"
	"pdf-chatbot-be/pkg/ocr"
	"pdf-chatbot-be/pkg/rasterizer"
	"pdf-chatbot-be/pkg/retry"
	"pdf-chatbot-be/pkg/storage"

	"github.com/google/uuid"
)

const moduleIngestion = "ingestion"

// Buckets names the three object-storage namespaces of the pipeline.
type Buckets struct {
	Pdf   string
	Image string
	Text  string
}

type IIngestionService interface {
	// IngestPdf runs the full pipeline for one uploaded document:
	// metadata row, durable PDF storage with verification read-back,
	// rasterization, then per-page OCR/upload/embed/upsert. Document-level
	// failures abort with a compensating metadata delete; per-page faults
	// degrade and are visible in the returned artifact lists.
	IngestPdf(ctx context.Context, fileName string, data []byte) (*dto.UploadPdfResponse, error)

	// ReprocessPdf re-runs OCR, text upload and embedding over the
	// already-stored page images of a document.
	ReprocessPdf(ctx context.Context, pdfId uuid.UUID) (*dto.ReprocessPdfResponse, error)
}

type ingestionService struct {
	pdfRepo     contract.PdfRepository
	embedRepo   contract.PageEmbeddingRepository
	store       storage.ObjectStorage
	recognizer  ocr.TextRecognizer
	embedder    embedding.Provider
	rasterizer  rasterizer.PageRasterizer
	retryPolicy retry.Policy
	buckets     Buckets
	workRoot    string
	log         logger.ILogger
}

func NewIngestionService(
	pdfRepo contract.PdfRepository,
	embedRepo contract.PageEmbeddingRepository,
	store storage.ObjectStorage,
	recognizer ocr.TextRecognizer,
	embedder embedding.Provider,
	pageRasterizer rasterizer.PageRasterizer,
	retryPolicy retry.Policy,
	buckets Buckets,
	workRoot string,
	log logger.ILogger,
) IIngestionService {
	if workRoot == "" {
		workRoot = os.TempDir()
	}
	return &ingestionService{
		pdfRepo:     pdfRepo,
		embedRepo:   embedRepo,
		store:       store,
		recognizer:  recognizer,
		embedder:    embedder,
		rasterizer:  pageRasterizer,
		retryPolicy: retryPolicy,
		buckets:     buckets,
		workRoot:    workRoot,
		log:         log,
	}
}

func (s *ingestionService) IngestPdf(ctx context.Context, fileName string, data []byte) (*dto.UploadPdfResponse, error) {
	// Created: allocate the metadata row and the document id.
	pdf := entity.Pdf{
		Name:       fileName,
		UploadDate: time.Now().UTC(),
	}
	if err := s.pdfRepo.Create(ctx, &pdf); err != nil {
		return nil, &PipelineError{Stage: StageCreated, Detail: "database error", Err: err}
	}

	// Stored: persist the original PDF bytes.
	storagePath := fmt.Sprintf("%s/%s", pdf.Id, filepath.Base(fileName))
	if err := s.store.Upload(ctx, s.buckets.Pdf, storagePath, data, "application/pdf"); err != nil {
		s.compensate(ctx, pdf.Id)
		return nil, &PipelineError{Stage: StageStored, Detail: "PDF upload failed", Err: err}
	}

	pdf.StoragePath = &storagePath
	if err := s.pdfRepo.Update(ctx, &pdf); err != nil {
		s.compensate(ctx, pdf.Id)
		return nil, &PipelineError{Stage: StageStored, Detail: "failed to update storage path", Err: err}
	}

	// Verification read-back: confirm the stored bytes are retrievable
	// before trusting them for the rest of the pipeline.
	stored, err := s.store.Download(ctx, s.buckets.Pdf, storagePath)
	if err != nil {
		s.compensate(ctx, pdf.Id)
		return nil, &PipelineError{Stage: StageVerified, Detail: "PDF upload verification failed", Err: err}
	}
	if len(stored) == 0 {
		s.compensate(ctx, pdf.Id)
		return nil, &PipelineError{Stage: StageVerified, Detail: "PDF upload verification failed: empty object"}
	}

	// Scoped working area. Deleted on every exit path from here on.
	workDir, err := os.MkdirTemp(s.workRoot, "ingest-"+pdf.Id.String()+"-")
	if err != nil {
		s.compensate(ctx, pdf.Id)
		return nil, &PipelineError{Stage: StageRasterized, Detail: "failed to create working area", Err: err}
	}
	defer os.RemoveAll(workDir)

	pdfPath := filepath.Join(workDir, filepath.Base(fileName))
	if err := os.WriteFile(pdfPath, stored, 0o644); err != nil {
		s.compensate(ctx, pdf.Id)
		return nil, &PipelineError{Stage: StageRasterized, Detail: "failed to write working copy", Err: err}
	}

	// Rasterized: all-or-nothing, a partial page set is never trusted.
	pages, err := s.rasterizer.Rasterize(ctx, pdfPath, filepath.Join(workDir, "images"))
	if err != nil {
		s.compensate(ctx, pdf.Id)
		return nil, &PipelineError{Stage: StageRasterized, Detail: "PDF conversion failed", Err: err}
	}

	prefix := pdf.Id.String()
	pdf.ImagePrefix = &prefix
	pdf.TextPrefix = &prefix
	if err := s.pdfRepo.Update(ctx, &pdf); err != nil {
		// Artifacts still land under the id-derived prefix; not fatal.
		s.log.Warn(moduleIngestion, "failed to record artifact prefixes", map[string]interface{}{
			"pdf_id": pdf.Id, "error": err.Error(),
		})
	}

	// PerPageProcessing: pages are independent, one bad page never
	// aborts the batch.
	uploadedImages := make([]string, 0, len(pages))
	uploadedTexts := make([]string, 0, len(pages))
	for _, page := range pages {
		imgBytes, err := os.ReadFile(page.Path)
		if err != nil {
			s.log.Error(moduleIngestion, "failed to read rendered page image", map[string]interface{}{
				"pdf_id": pdf.Id, "page_number": page.Number, "error": err.Error(),
			})
			continue
		}

		imgStoragePath := fmt.Sprintf("%s/%s", pdf.Id, rasterizer.PageImageName(page.Number))
		err = s.retryPolicy.Do(ctx, func() error {
			return s.store.Upload(ctx, s.buckets.Image, imgStoragePath, imgBytes, "image/jpeg")
		})
		if err != nil {
			s.log.Error(moduleIngestion, "image upload failed after retries", map[string]interface{}{
				"pdf_id": pdf.Id, "page_number": page.Number, "error": err.Error(),
			})
		} else {
			uploadedImages = append(uploadedImages, imgStoragePath)
		}

		// Recognition never raises; failures ride along as the page text.
		text := s.recognizer.Recognize(ctx, imgBytes).Content()

		if txtPath, ok := s.persistPageText(ctx, pdf.Id, page.Number, text); ok {
			uploadedTexts = append(uploadedTexts, txtPath)
		}

		s.embedAndStore(ctx, pdf.Id, page.Number, text)
	}

	// Completed. The deferred cleanup removes the whole working area.
	return &dto.UploadPdfResponse{
		Message:        "PDF uploaded, images extracted and uploaded, text extracted and uploaded.",
		PdfId:          pdf.Id,
		PdfName:        pdf.Name,
		UploadDate:     pdf.UploadDate,
		StoragePath:    storagePath,
		UploadedImages: uploadedImages,
		UploadedTexts:  uploadedTexts,
	}, nil
}

// persistPageText uploads one page's text artifact with the retry policy.
func (s *ingestionService) persistPageText(ctx context.Context, pdfId uuid.UUID, pageNumber int, text string) (string, bool) {
	txtStoragePath := fmt.Sprintf("%s/%s", pdfId, rasterizer.PageTextName(pageNumber))
	err := s.retryPolicy.Do(ctx, func() error {
		return s.store.Upload(ctx, s.buckets.Text, txtStoragePath, []byte(text), "text/plain")
	})
	if err != nil {
		s.log.Error(moduleIngestion, "text upload failed after retries", map[string]interface{}{
			"pdf_id": pdfId, "page_number": pageNumber, "error": err.Error(),
		})
		return "", false
	}
	return txtStoragePath, true
}

// embedAndStore embeds one page's text and upserts the embedding record.
// Faults here are logged and skipped: ingestion completes with partial
// embeddings persisted rather than aborting.
func (s *ingestionService) embedAndStore(ctx context.Context, pdfId uuid.UUID, pageNumber int, text string) {
	vector, err := s.embedder.Generate(ctx, text)
	if err != nil {
		s.log.Error(moduleIngestion, "failed to embed page text", map[string]interface{}{
			"pdf_id": pdfId, "page_number": pageNumber, "error": err.Error(),
		})
		return
	}

	record := entity.PageEmbedding{
		PdfId:      pdfId,
		PageNumber: pageNumber,
		Text:       text,
		Embedding:  vector,
	}
	if err := s.embedRepo.Upsert(ctx, &record); err != nil {
		s.log.Error(moduleIngestion, "failed to upsert page embedding", map[string]interface{}{
			"pdf_id": pdfId, "page_number": pageNumber, "error": err.Error(),
		})
	}
}

// compensate removes the metadata row created at the start of the run so
// a fatal stage failure leaves no orphan metadata without backing bytes.
func (s *ingestionService) compensate(ctx context.Context, pdfId uuid.UUID) {
	if err := s.pdfRepo.Delete(ctx, pdfId); err != nil {
		s.log.Error(moduleIngestion, "failed to cleanup metadata row", map[string]interface{}{
			"pdf_id": pdfId, "error": err.Error(),
		})
	}
}

func (s *ingestionService) ReprocessPdf(ctx context.Context, pdfId uuid.UUID) (*dto.ReprocessPdfResponse, error) {
	pdf, err := s.pdfRepo.FindById(ctx, pdfId)
	if err != nil {
		return nil, err
	}
	if pdf == nil {
		return nil, ErrPdfNotFound
	}

	entries, err := s.store.List(ctx, s.buckets.Image, pdf.Id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list page images: %w", err)
	}
	if len(entries) == 0 {
		s.log.Warn(moduleIngestion, "no images found for reprocessing", map[string]interface{}{
			"pdf_id": pdf.Id,
		})
		return &dto.ReprocessPdfResponse{PdfId: pdf.Id, UploadedTexts: []string{}}, nil
	}

	// Listing order is alphabetical; processing follows the explicit page
	// number recovered from each artifact name.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	uploadedTexts := make([]string, 0, len(entries))
	for _, entry := range entries {
		pageNumber, ok := rasterizer.ParsePageNumber(entry.Name)
		if !ok {
			s.log.Warn(moduleIngestion, "skipping unrecognized image artifact", map[string]interface{}{
				"pdf_id": pdf.Id, "name": entry.Name,
			})
			continue
		}

		imgBytes, err := s.store.Download(ctx, s.buckets.Image, fmt.Sprintf("%s/%s", pdf.Id, entry.Name))
		if err != nil {
			s.log.Error(moduleIngestion, "failed to download page image", map[string]interface{}{
				"pdf_id": pdf.Id, "page_number": pageNumber, "error": err.Error(),
			})
			continue
		}

		text := s.recognizer.Recognize(ctx, imgBytes).Content()

		if txtPath, ok := s.persistPageText(ctx, pdf.Id, pageNumber, text); ok {
			uploadedTexts = append(uploadedTexts, txtPath)
		}

		s.embedAndStore(ctx, pdf.Id, pageNumber, text)
	}

	return &dto.ReprocessPdfResponse{
		PdfId:         pdf.Id,
		UploadedTexts: uploadedTexts,
	}, nil
}
