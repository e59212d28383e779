package merge

import (
	"log/slog"
	"math"

	"github.com/ledgerlens/ledgerlens/internal/extract"
)

// Invoices combines per-chunk invoice extractions into one. Header fields
// take the first non-empty value and are never overwritten. Line items are
// deduplicated by (itemName, quantity, ratePerUnit), first occurrence wins.
// Aggregate totals take the maximum seen across chunks: a chunk that did not
// see the totals section reports zero or a partial figure, and the largest
// reading is assumed to be the complete one.
func Invoices(results []extract.Invoice, logger *slog.Logger) extract.Invoice {
	if logger == nil {
		logger = slog.Default()
	}

	var merged extract.Invoice
	seen := make(map[string]struct{})

	for _, inv := range results {
		fillScalar(&merged.VoucherNo, inv.VoucherNo)
		fillScalar(&merged.VoucherDate, inv.VoucherDate)
		fillScalar(&merged.PartyName, inv.PartyName)
		fillScalar(&merged.PartyAddress, inv.PartyAddress)
		fillScalar(&merged.GSTNumber, inv.GSTNumber)

		for _, item := range inv.Items {
			key := item.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged.Items = append(merged.Items, item)
		}

		merged.SubTotal = math.Max(merged.SubTotal, inv.SubTotal)
		merged.TotalCGST = math.Max(merged.TotalCGST, inv.TotalCGST)
		merged.TotalSGST = math.Max(merged.TotalSGST, inv.TotalSGST)
		merged.GrandTotal = math.Max(merged.GrandTotal, inv.GrandTotal)
	}

	// Cross-check the reported totals against the reconciled line items and
	// flag disagreement beyond rounding. The max-wins figure still stands.
	var itemSum float64
	for _, item := range merged.Items {
		itemSum += item.TaxableValue
	}
	if merged.SubTotal > 0 && itemSum > 0 && math.Abs(itemSum-merged.SubTotal) > 0.5 {
		logger.Warn("merge.invoices.subtotal_mismatch",
			"reported", merged.SubTotal,
			"line_item_sum", itemSum,
		)
	}

	return merged
}

func fillScalar(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}
