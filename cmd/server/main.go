package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ledgerlens/ledgerlens/internal/api"
	"github.com/ledgerlens/ledgerlens/internal/config"
	"github.com/ledgerlens/ledgerlens/internal/extract"
	"github.com/ledgerlens/ledgerlens/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize clients.
	groq := extract.NewGroqClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel, log)

	// Initialize pipeline.
	pipe := pipeline.New(groq, pipeline.Config{
		CSVChunkBytes:        cfg.CSVChunkBytes,
		TextChunkBytes:       cfg.TextChunkBytes,
		StatementBatchSize:   cfg.StatementBatchSize,
		InvoiceBatchSize:     cfg.InvoiceBatchSize,
		BatchPause:           cfg.BatchPause,
		MaxAttempts:          cfg.MaxAttempts,
		RetryDelay:           cfg.RetryDelay,
		StatementTemperature: cfg.StatementTemperature,
		InvoiceTemperature:   cfg.InvoiceTemperature,
	}, log, nil)

	// Initialize HTTP server.
	srv := api.NewServer(pipe, groq, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		groq.Close()
	}()

	log.Info("starting ledgerlens", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
