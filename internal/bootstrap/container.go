package bootstrap

import (
	"context"
	"log"

	"pdf-chatbot-be/internal/config"
	"pdf-chatbot-be/internal/controller"
	"pdf-chatbot-be/internal/pkg/logger"
	"pdf-chatbot-be/internal/repository/implementation"
	"pdf-chatbot-be/internal/service"
	"pdf-chatbot-be/pkg/answer"
	"pdf-chatbot-be/pkg/embedding"
	"pdf-chatbot-be/pkg/ocr"
	"pdf-chatbot-be/pkg/rasterizer"
	"pdf-chatbot-be/pkg/retry"
	"pdf-chatbot-be/pkg/storage"

	"gorm.io/gorm"
)

type Container struct {
	PdfController controller.IPdfController
	AskController controller.IAskController

	// Closers exposed for main.go shutdown.
	Recognizer *ocr.VisionRecognizer
	Logger     logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	ctx := context.Background()

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Repositories
	pdfRepo := implementation.NewPdfRepository(db)
	embedRepo := implementation.NewPageEmbeddingRepository(db)

	// 3. External Clients
	store := storage.NewSupabaseClient(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey)

	recognizer, err := ocr.NewVisionRecognizer(ctx, cfg.Keys.VisionCredentialsPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Vision OCR client: %v", err)
	}

	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
			cfg.Ai.EmbeddingDimension,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.EmbeddingDimension)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	synthesizer, err := answer.NewSynthesizer(ctx, cfg.Keys.GoogleGemini, cfg.Ai.FallbackAskModel)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Gemini client: %v", err)
	}

	pageRasterizer := rasterizer.New(cfg.Pipeline.RenderDPI)

	// 4. Services
	ingestionService := service.NewIngestionService(
		pdfRepo,
		embedRepo,
		store,
		recognizer,
		embeddingProvider,
		pageRasterizer,
		retry.DefaultPolicy(),
		service.Buckets{
			Pdf:   cfg.Storage.PdfBucket,
			Image: cfg.Storage.ImageBucket,
			Text:  cfg.Storage.TextBucket,
		},
		cfg.Pipeline.WorkDir,
		sysLogger,
	)

	queryService := service.NewQueryService(
		pdfRepo,
		embedRepo,
		embeddingProvider,
		synthesizer,
		cfg.Ai.DefaultAskModel,
		sysLogger,
	)

	// 5. Controllers
	return &Container{
		PdfController: controller.NewPdfController(ingestionService, cfg.Storage.MaxUploadSizeMB),
		AskController: controller.NewAskController(queryService),

		Recognizer: recognizer,
		Logger:     sysLogger,
	}
}
