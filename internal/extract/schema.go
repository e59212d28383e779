package extract

// BuildStatementSchema returns the JSON Schema (draft 2020-12 subset) a
// statement extraction response must satisfy: a JSON object whose array
// values are transaction lists. Category values that are not arrays pass
// the schema and are dropped later by ParseStatementResult; per-category
// data-quality noise must not fail a whole chunk.
func BuildStatementSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"additionalProperties": map[string]any{
			"anyOf": []any{
				map[string]any{
					"type":  "array",
					"items": transactionSchema(),
				},
				map[string]any{
					"not": map[string]any{"type": "array"},
				},
			},
		},
	}
}

func transactionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Date":        map[string]any{"type": "string"},
			"Mode":        map[string]any{"type": "string"},
			"Particulars": map[string]any{"type": "string"},
			"Deposits":    map[string]any{"type": "string"},
			"Withdrawals": map[string]any{"type": "string"},
			"Balance":     map[string]any{"type": "string"},
			"bankLedger":  map[string]any{"type": "string"},
			"bankName":    map[string]any{"type": "string"},
		},
		"required":             []string{"Date", "Mode", "Particulars", "Deposits", "Withdrawals", "Balance"},
		"additionalProperties": true,
	}
}

// BuildInvoiceSchema returns the schema for invoice extraction. Every money
// and quantity field is typed "number", so unevaluated expressions or
// percent-suffixed strings fail validation instead of leaking into totals.
func BuildInvoiceSchema() map[string]any {
	num := map[string]any{"type": "number"}
	str := map[string]any{"type": "string"}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"voucherNo":    str,
			"voucherDate":  str,
			"partyName":    str,
			"partyAddress": str,
			"gstNumber":    str,
			"lineItems": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"itemName":     str,
						"hsnCode":      str,
						"quantity":     num,
						"unit":         str,
						"ratePerUnit":  num,
						"totalValue":   num,
						"discount":     num,
						"taxableValue": num,
						"cgstPercent":  num,
						"sgstPercent":  num,
						"cgstAmount":   num,
						"sgstAmount":   num,
						"totalAmount":  num,
					},
					"required":             []string{"itemName", "quantity", "ratePerUnit", "totalAmount"},
					"additionalProperties": true,
				},
			},
			"subTotal":   num,
			"totalCGST":  num,
			"totalSGST":  num,
			"grandTotal": num,
		},
		"required":             []string{"lineItems"},
		"additionalProperties": true,
	}
}
