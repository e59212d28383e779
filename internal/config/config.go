package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	ServiceAPIKey string

	// Groq extraction
	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	// Sampling temperatures. Invoices run colder to minimize arithmetic drift.
	StatementTemperature float32
	InvoiceTemperature   float32

	// Chunking byte budgets. These double as the single-call thresholds:
	// input that fits in one chunk is sent in a single request.
	CSVChunkBytes  int
	TextChunkBytes int

	// Batch scheduling
	StatementBatchSize int
	InvoiceBatchSize   int
	BatchPause         time.Duration

	// Single-shot invoice retry
	MaxAttempts int
	RetryDelay  time.Duration

	// Upload limits
	MaxUploadBytes int64

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		ServiceAPIKey: os.Getenv("LEDGERLENS_API_KEY"),

		GroqAPIKey:  os.Getenv("GROQ_API_KEY"),
		GroqBaseURL: envOr("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:   envOr("GROQ_MODEL", "llama-3.3-70b-versatile"),

		StatementTemperature: envFloat32("STATEMENT_TEMPERATURE", 0.2),
		InvoiceTemperature:   envFloat32("INVOICE_TEMPERATURE", 0.1),

		CSVChunkBytes:  envInt("CSV_CHUNK_BYTES", 4000),
		TextChunkBytes: envInt("TEXT_CHUNK_BYTES", 8000),

		StatementBatchSize: envInt("STATEMENT_BATCH_SIZE", 3),
		InvoiceBatchSize:   envInt("INVOICE_BATCH_SIZE", 2),
		BatchPause:         envDuration("BATCH_PAUSE", time.Second),

		MaxAttempts: envInt("MAX_ATTEMPTS", 3),
		RetryDelay:  envDuration("RETRY_DELAY", time.Second),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 26214400), // 25MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.CSVChunkBytes <= 0 {
		cfg.CSVChunkBytes = 4000
	}
	if cfg.TextChunkBytes <= 0 {
		cfg.TextChunkBytes = 8000
	}
	if cfg.StatementBatchSize <= 0 {
		cfg.StatementBatchSize = 3
	}
	if cfg.InvoiceBatchSize <= 0 {
		cfg.InvoiceBatchSize = 2
	}
	if cfg.BatchPause < 0 {
		cfg.BatchPause = time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 26214400
	}

	return cfg
}

func (c Config) Validate() error {
	if c.ServiceAPIKey == "" {
		return fmt.Errorf("LEDGERLENS_API_KEY is required")
	}
	if c.GroqAPIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat32(key string, fallback float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
