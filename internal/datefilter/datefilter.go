// Package datefilter narrows a merged statement result to a caller-supplied
// date range. It is deliberately forgiving: a range that cannot be parsed,
// or one that would empty the result, leaves the data untouched. Returning
// too much is better than returning nothing.
package datefilter

import (
	"log/slog"
	"strings"
	"time"

	"github.com/ledgerlens/ledgerlens/internal/extract"
)

// Date layouts accepted for both range bounds and transaction dates:
// day-month-year with /, -, . or space separators.
var layouts = []string{
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"02 01 2006",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
}

// ParseDate parses a day-first date string, trying each accepted layout.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ApplyRange filters result down to transactions dated within the range
// string "start - end" (inclusive). The second return reports whether the
// filter was actually applied. Unparseable bounds skip filtering entirely;
// transactions with unparseable dates are dropped with a warning; a filter
// that would remove everything is abandoned and the input returned as-is.
func ApplyRange(result *extract.StatementResult, rangeStr string, logger *slog.Logger) (*extract.StatementResult, bool) {
	if logger == nil {
		logger = slog.Default()
	}
	rangeStr = strings.TrimSpace(rangeStr)
	if rangeStr == "" {
		return result, false
	}

	startStr, endStr, ok := strings.Cut(rangeStr, " - ")
	if !ok {
		logger.Warn("datefilter.range_unparseable", "range", rangeStr)
		return result, false
	}
	start, okStart := ParseDate(startStr)
	end, okEnd := ParseDate(endStr)
	if !okStart || !okEnd {
		logger.Warn("datefilter.bound_unparseable",
			"start", startStr, "end", endStr)
		return result, false
	}

	filtered := extract.NewStatementResult()
	for _, category := range result.Categories() {
		filtered.Append(category)
		for _, tx := range result.Transactions(category) {
			d, ok := ParseDate(tx.Date)
			if !ok {
				logger.Warn("datefilter.transaction_date_unparseable",
					"category", category, "date", tx.Date)
				continue
			}
			if d.Before(start) || d.After(end) {
				continue
			}
			filtered.Append(category, tx)
		}
	}

	if filtered.TransactionCount() == 0 {
		logger.Info("datefilter.empty_result_fallback",
			"range", rangeStr, "kept", 0, "total", result.TransactionCount())
		return result, false
	}
	return filtered, true
}
