// Package merge folds independently extracted chunk results into one
// document-level result without losing or double-counting records.
package merge

import (
	"log/slog"

	"github.com/ledgerlens/ledgerlens/internal/extract"
)

// Statements combines per-chunk statement results into one. Categories keep
// first-seen order across chunks; within a category, transactions keep chunk
// order then within-chunk order. A transaction whose dedup key was already
// seen in that category is dropped; chunk boundaries can hand the model the
// same row twice.
func Statements(results []*extract.StatementResult, logger *slog.Logger) *extract.StatementResult {
	if logger == nil {
		logger = slog.Default()
	}

	merged := extract.NewStatementResult()
	seen := make(map[string]map[string]struct{})

	duplicates := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, category := range r.Categories() {
			if _, ok := seen[category]; !ok {
				seen[category] = make(map[string]struct{})
				merged.Append(category)
			}
			for _, tx := range r.Transactions(category) {
				key := tx.Key()
				if _, dup := seen[category][key]; dup {
					duplicates++
					continue
				}
				seen[category][key] = struct{}{}
				merged.Append(category, scrubRejected(category, tx))
			}
		}
	}

	if duplicates > 0 {
		logger.Info("merge.statements.deduplicated", "dropped", duplicates)
	}
	return merged
}

// scrubRejected strips ledger attribution from rejected transactions.
// Bounced entries must never be posted against a ledger, regardless of what
// the model emitted.
func scrubRejected(category string, tx extract.Transaction) extract.Transaction {
	if category == extract.RejectedCategory {
		tx.BankLedger = ""
		tx.BankName = ""
	}
	return tx
}
