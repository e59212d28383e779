package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledgerlens/ledgerlens/internal/chunker"
	"github.com/ledgerlens/ledgerlens/internal/extract"
	"github.com/ledgerlens/ledgerlens/internal/merge"
	"github.com/ledgerlens/ledgerlens/internal/parser"
)

// InvoiceRequest is one invoice extraction job.
type InvoiceRequest struct {
	FileData []byte
	Filename string
}

// InvoiceResponse is the merged invoice plus response metadata.
type InvoiceResponse struct {
	Invoice extract.Invoice
	Chunks  int
}

// ExtractInvoice pulls plain text out of the uploaded document and runs it
// through the model. Small documents get a single call with fixed-delay
// retries; oversized ones are chunked into paced batches, where a failing
// chunk fails the document without retry.
func (p *Pipeline) ExtractInvoice(ctx context.Context, req InvoiceRequest) (*InvoiceResponse, error) {
	docParser, err := parser.ForFile(req.Filename)
	if err != nil {
		return nil, err
	}
	text, err := docParser.Parse(bytes.NewReader(req.FileData), req.Filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", req.Filename, err)
	}

	log := p.log.With("kind", "invoice", "filename", req.Filename)

	if len(text) <= p.cfg.TextChunkBytes {
		var inv extract.Invoice
		err := withRetry(ctx, p.cfg.MaxAttempts, p.cfg.RetryDelay, func() error {
			raw, err := p.client.Complete(ctx, extract.BuildInvoiceRequest(text, 0, 1, p.cfg.InvoiceTemperature))
			if err != nil {
				return err
			}
			inv, err = extract.ParseInvoice(raw)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("invoice extraction: %w", err)
		}
		merged := merge.Invoices([]extract.Invoice{inv}, log)
		log.Info("invoice.extracted", "chunks", 1, "line_items", len(merged.Items))
		return &InvoiceResponse{Invoice: merged, Chunks: 1}, nil
	}

	chunks := chunker.ChunkText(text, p.cfg.TextChunkBytes)
	log.Info("invoice.chunked", "bytes", len(text), "chunks", len(chunks))

	raws, err := scheduler{
		batchSize: p.cfg.InvoiceBatchSize,
		pause:     p.cfg.BatchPause,
		obs:       p.obs,
	}.run(ctx, len(chunks), func(ctx context.Context, i int) ([]byte, error) {
		return p.client.Complete(ctx, extract.BuildInvoiceRequest(
			chunks[i].Body, chunks[i].Index, chunks[i].Total, p.cfg.InvoiceTemperature))
	})
	if err != nil {
		return nil, fmt.Errorf("invoice extraction: %w", err)
	}

	results := make([]extract.Invoice, 0, len(raws))
	for i, raw := range raws {
		inv, err := extract.ParseInvoice(raw)
		if err != nil {
			return nil, fmt.Errorf("invoice chunk %d: %w", i, err)
		}
		results = append(results, inv)
	}

	merged := merge.Invoices(results, log)
	log.Info("invoice.extracted", "chunks", len(chunks), "line_items", len(merged.Items))
	return &InvoiceResponse{Invoice: merged, Chunks: len(chunks)}, nil
}
