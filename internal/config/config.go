package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Keys     APIKeys
	Ai       AIConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type StorageConfig struct {
	SupabaseURL     string
	SupabaseKey     string
	PdfBucket       string
	ImageBucket     string
	TextBucket      string
	MaxUploadSizeMB int
}

type APIKeys struct {
	GoogleGemini          string
	VisionCredentialsPath string // optional: empty means ambient/default service account
}

type AIConfig struct {
	EmbeddingProvider  string // "ollama" or "gemini"
	OllamaBaseURL      string
	OllamaModel        string
	EmbeddingDimension int
	DefaultAskModel    string
	FallbackAskModel   string
}

type PipelineConfig struct {
	RenderDPI int
	WorkDir   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Storage: StorageConfig{
			SupabaseURL:     getEnv("SUPABASE_URL", ""),
			SupabaseKey:     getEnv("SUPABASE_KEY", ""),
			PdfBucket:       getEnv("PDF_BUCKET", "pdfs"),
			ImageBucket:     getEnv("IMAGE_BUCKET", "pdfimg"),
			TextBucket:      getEnv("TEXT_BUCKET", "pdftxt"),
			MaxUploadSizeMB: getEnvAsInt("MAX_UPLOAD_SIZE_MB", 50),
		},
		Keys: APIKeys{
			GoogleGemini:          getEnv("GEMINI_API_KEY", ""),
			VisionCredentialsPath: getEnv("VISION_CREDENTIALS_PATH", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:        getEnv("OLLAMA_EMBEDDING_MODEL", "all-minilm"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 384),
			DefaultAskModel:    getEnv("GEMINI_ASK_MODEL", "models/gemini-2.5-flash"),
			FallbackAskModel:   getEnv("GEMINI_FALLBACK_MODEL", "models/gemini-2.5-flash-lite"),
		},
		Pipeline: PipelineConfig{
			RenderDPI: getEnvAsInt("PDF_RENDER_DPI", 300),
			WorkDir:   getEnv("PIPELINE_WORK_DIR", os.TempDir()),
		},
	}
}

// Validate checks the settings the process cannot serve without.
// VISION_CREDENTIALS_PATH is deliberately not required: when absent the
// OCR client falls back to the ambient service account (cloud deployment).
func (c *Config) Validate() error {
	missing := []string{}
	if c.Database.Connection == "" {
		missing = append(missing, "DB_CONNECTION_STRING")
	}
	if c.Storage.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.Storage.SupabaseKey == "" {
		missing = append(missing, "SUPABASE_KEY")
	}
	if c.Keys.GoogleGemini == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	if c.Keys.VisionCredentialsPath == "" {
		log.Println("VISION_CREDENTIALS_PATH not set - will use default service account (cloud deployment)")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
