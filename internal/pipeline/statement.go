package pipeline

import (
	"context"
	"fmt"

	"github.com/ledgerlens/ledgerlens/internal/chunker"
	"github.com/ledgerlens/ledgerlens/internal/datefilter"
	"github.com/ledgerlens/ledgerlens/internal/extract"
	"github.com/ledgerlens/ledgerlens/internal/merge"
	"github.com/ledgerlens/ledgerlens/internal/normalize"
)

// StatementRequest is one bank-statement extraction job.
type StatementRequest struct {
	FileData []byte
	Filename string

	Ledger    string // generic ledger label hint, e.g. "Suspense"
	BankName  string
	DateRange string // optional "DD-MM-YYYY - DD-MM-YYYY"
}

// StatementResponse is the merged result plus response metadata.
type StatementResponse struct {
	Result            *extract.StatementResult
	Categories        int
	Transactions      int
	Chunks            int
	DateFilterApplied bool
}

// ExtractStatement normalizes the upload to CSV, runs it through the model
// (directly when small, in paced concurrent batches when large), merges the
// per-chunk results, and applies the optional date filter.
func (p *Pipeline) ExtractStatement(ctx context.Context, req StatementRequest) (*StatementResponse, error) {
	csvText, err := normalize.ToCSV(req.FileData, req.Filename)
	if err != nil {
		return nil, err
	}

	log := p.log.With("kind", "statement", "filename", req.Filename)

	var chunks []chunker.Chunk
	if len(csvText) <= p.cfg.CSVChunkBytes {
		chunks = []chunker.Chunk{{Index: 0, Total: 1, Body: csvText}}
	} else {
		chunks = chunker.ChunkCSV(csvText, p.cfg.CSVChunkBytes)
	}
	log.Info("statement.chunked", "bytes", len(csvText), "chunks", len(chunks))

	raws, err := scheduler{
		batchSize: p.cfg.StatementBatchSize,
		pause:     p.cfg.BatchPause,
		obs:       p.obs,
	}.run(ctx, len(chunks), func(ctx context.Context, i int) ([]byte, error) {
		creq := extract.BuildStatementRequest(
			chunks[i].Body, req.Ledger, req.BankName,
			chunks[i].Index, chunks[i].Total,
			p.cfg.StatementTemperature,
		)
		return p.client.Complete(ctx, creq)
	})
	if err != nil {
		return nil, fmt.Errorf("statement extraction: %w", err)
	}

	results := make([]*extract.StatementResult, 0, len(raws))
	for i, raw := range raws {
		r, err := extract.ParseStatementResult(raw, log)
		if err != nil {
			return nil, fmt.Errorf("statement chunk %d: %w", i, err)
		}
		results = append(results, r)
	}

	merged := merge.Statements(results, log)
	filtered, applied := datefilter.ApplyRange(merged, req.DateRange, log)

	log.Info("statement.extracted",
		"categories", len(filtered.Categories()),
		"transactions", filtered.TransactionCount(),
		"date_filter_applied", applied,
	)

	return &StatementResponse{
		Result:            filtered,
		Categories:        len(filtered.Categories()),
		Transactions:      filtered.TransactionCount(),
		Chunks:            len(chunks),
		DateFilterApplied: applied,
	}, nil
}
