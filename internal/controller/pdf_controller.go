package controller

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"pdf-chatbot-be/internal/dto"
	"pdf-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPdfController interface {
	RegisterRoutes(r fiber.Router)
	UploadPdf(ctx *fiber.Ctx) error
	ReprocessPdf(ctx *fiber.Ctx) error
}

type pdfController struct {
	ingestionService service.IIngestionService
	maxUploadSizeMB  int
}

func NewPdfController(ingestionService service.IIngestionService, maxUploadSizeMB int) IPdfController {
	return &pdfController{
		ingestionService: ingestionService,
		maxUploadSizeMB:  maxUploadSizeMB,
	}
}

func (c *pdfController) RegisterRoutes(r fiber.Router) {
	r.Post("/upload_pdf/", c.UploadPdf)
	r.Post("/reprocess_pdf/:pdf_id", c.ReprocessPdf)
}

func (c *pdfController) UploadPdf(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing file field")
	}

	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return fiber.NewError(fiber.StatusBadRequest, "Only PDF files are allowed")
	}

	maxBytes := int64(c.maxUploadSizeMB) * 1024 * 1024
	if fileHeader.Size > maxBytes {
		sizeMB := float64(fileHeader.Size) / (1024 * 1024)
		return ctx.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.FileTooLargeResponse{
			Error:                 "File too large",
			FileSizeMB:            fmt.Sprintf("%.2f MB", sizeMB),
			SupabaseFreeTierLimit: fmt.Sprintf("%d MB", c.maxUploadSizeMB),
			Message:               fmt.Sprintf("Your file is %.2f MB, but the free tier limit is %d MB.", sizeMB, c.maxUploadSizeMB),
			Solution:              "Please compress your PDF or upgrade to Supabase Pro plan for larger uploads.",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Failed to open uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Failed to read uploaded file")
	}

	res, err := c.ingestionService.IngestPdf(ctx.Context(), fileHeader.Filename, data)
	if err != nil {
		var pipelineErr *service.PipelineError
		if errors.As(err, &pipelineErr) {
			return fiber.NewError(fiber.StatusInternalServerError, pipelineErr.Error())
		}
		return err
	}

	return ctx.JSON(res)
}

func (c *pdfController) ReprocessPdf(ctx *fiber.Ctx) error {
	pdfId, err := uuid.Parse(ctx.Params("pdf_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid pdf_id")
	}

	res, err := c.ingestionService.ReprocessPdf(ctx.Context(), pdfId)
	if err != nil {
		if errors.Is(err, service.ErrPdfNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "PDF not found")
		}
		return err
	}

	return ctx.JSON(res)
}
