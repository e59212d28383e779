// Package pipeline orchestrates document extraction: it decides between a
// single model call and chunked batches, paces concurrent calls against the
// model API, and folds per-chunk results into one document-level answer.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/ledgerlens/ledgerlens/internal/extract"
)

// ModelClient is the slice of the Groq client the pipeline depends on.
type ModelClient interface {
	Complete(ctx context.Context, req extract.CompletionRequest) ([]byte, error)
}

// Config carries the scheduling knobs. Everything is injectable so tests run
// with zero delay.
type Config struct {
	CSVChunkBytes  int
	TextChunkBytes int

	StatementBatchSize int
	InvoiceBatchSize   int
	BatchPause         time.Duration

	MaxAttempts int
	RetryDelay  time.Duration

	StatementTemperature float32
	InvoiceTemperature   float32
}

// DefaultConfig returns production pacing: batches of 3/2 with a one-second
// pause, three single-shot attempts one second apart.
func DefaultConfig() Config {
	return Config{
		CSVChunkBytes:        4000,
		TextChunkBytes:       8000,
		StatementBatchSize:   3,
		InvoiceBatchSize:     2,
		BatchPause:           time.Second,
		MaxAttempts:          3,
		RetryDelay:           time.Second,
		StatementTemperature: 0.2,
		InvoiceTemperature:   0.1,
	}
}

// Pipeline runs statement and invoice extractions against one model client.
type Pipeline struct {
	client ModelClient
	cfg    Config
	log    *slog.Logger
	obs    Observer
}

func New(client ModelClient, cfg Config, log *slog.Logger, obs Observer) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	if obs == nil {
		obs = NewLogObserver(log)
	}
	if cfg.CSVChunkBytes <= 0 {
		cfg.CSVChunkBytes = DefaultConfig().CSVChunkBytes
	}
	if cfg.TextChunkBytes <= 0 {
		cfg.TextChunkBytes = DefaultConfig().TextChunkBytes
	}
	if cfg.StatementBatchSize <= 0 {
		cfg.StatementBatchSize = DefaultConfig().StatementBatchSize
	}
	if cfg.InvoiceBatchSize <= 0 {
		cfg.InvoiceBatchSize = DefaultConfig().InvoiceBatchSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	return &Pipeline{client: client, cfg: cfg, log: log, obs: obs}
}
