package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
)

// RejectedCategory is the category the model files bounced/failed entries
// under. Transactions in it never carry ledger or bank attribution.
const RejectedCategory = "Rejected Transactions"

// Transaction is one bank-statement row as the model reports it. Amount
// fields stay strings: the statement pipeline passes them through untouched.
type Transaction struct {
	Date        string `json:"Date"`
	Mode        string `json:"Mode"`
	Particulars string `json:"Particulars"`
	Deposits    string `json:"Deposits"`
	Withdrawals string `json:"Withdrawals"`
	Balance     string `json:"Balance"`
	BankLedger  string `json:"bankLedger,omitempty"`
	BankName    string `json:"bankName,omitempty"`
}

// Key identifies a transaction for de-duplication across chunks. Balance is
// deliberately excluded: chunk boundaries can leave it blank or stale for
// the same underlying row.
func (t Transaction) Key() string {
	return t.Date + "\x1f" + t.Particulars + "\x1f" + t.Deposits + "\x1f" + t.Withdrawals
}

// StatementResult maps category names to transaction lists while preserving
// the order categories were first seen. Plain Go maps lose that order, and
// category order is part of the response contract.
type StatementResult struct {
	order      []string
	categories map[string][]Transaction
}

func NewStatementResult() *StatementResult {
	return &StatementResult{categories: make(map[string][]Transaction)}
}

// Categories returns category names in first-seen order.
func (r *StatementResult) Categories() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Transactions returns the list for a category, or nil if absent.
func (r *StatementResult) Transactions(category string) []Transaction {
	return r.categories[category]
}

// Append adds transactions to a category, creating it on first sight.
func (r *StatementResult) Append(category string, txs ...Transaction) {
	if _, ok := r.categories[category]; !ok {
		r.order = append(r.order, category)
		r.categories[category] = nil
	}
	r.categories[category] = append(r.categories[category], txs...)
}

// TransactionCount returns the total number of transactions across categories.
func (r *StatementResult) TransactionCount() int {
	n := 0
	for _, txs := range r.categories {
		n += len(txs)
	}
	return n
}

// MarshalJSON emits a JSON object with categories in first-seen order.
func (r *StatementResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cat)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.categories[cat])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseStatementResult decodes one chunk's model output into an ordered
// result. The top level must be a JSON object; category values that are not
// transaction arrays are logged and skipped rather than failing the chunk.
func ParseStatementResult(raw []byte, logger *slog.Logger) (*StatementResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, &MalformedResponseError{Reason: "not valid JSON", Err: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("top-level value is %v, want object", tok)}
	}

	result := NewStatementResult()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, &MalformedResponseError{Reason: "truncated object", Err: err}
		}
		category, ok := keyTok.(string)
		if !ok {
			return nil, &MalformedResponseError{Reason: "non-string object key"}
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, &MalformedResponseError{Reason: "unreadable category value", Err: err}
		}

		var txs []Transaction
		if err := json.Unmarshal(value, &txs); err != nil {
			logger.Warn("statement.parse.category_skipped",
				"category", category,
				"reason", "value is not a transaction array",
			)
			continue
		}
		result.Append(category, txs...)
	}

	return result, nil
}

// Invoice is the structured extraction of one purchase/sales invoice.
type Invoice struct {
	VoucherNo    string     `json:"voucherNo"`
	VoucherDate  string     `json:"voucherDate"`
	PartyName    string     `json:"partyName"`
	PartyAddress string     `json:"partyAddress"`
	GSTNumber    string     `json:"gstNumber"`
	Items        []LineItem `json:"lineItems"`
	SubTotal     float64    `json:"subTotal"`
	TotalCGST    float64    `json:"totalCGST"`
	TotalSGST    float64    `json:"totalSGST"`
	GrandTotal   float64    `json:"grandTotal"`
}

// ParseInvoice decodes one chunk's invoice output. The bytes have already
// passed schema validation, so a decode failure here still counts as a
// malformed response.
func ParseInvoice(raw []byte) (Invoice, error) {
	var inv Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return Invoice{}, &MalformedResponseError{Reason: "invoice decode failed", Err: err}
	}
	return inv, nil
}

// LineItem is one invoice row. All numeric fields are finalized numbers;
// the response schema rejects expressions or percent-suffixed strings.
type LineItem struct {
	ItemName     string  `json:"itemName"`
	HSNCode      string  `json:"hsnCode"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	RatePerUnit  float64 `json:"ratePerUnit"`
	TotalValue   float64 `json:"totalValue"`
	Discount     float64 `json:"discount"`
	TaxableValue float64 `json:"taxableValue"`
	CGSTPercent  float64 `json:"cgstPercent"`
	SGSTPercent  float64 `json:"sgstPercent"`
	CGSTAmount   float64 `json:"cgstAmount"`
	SGSTAmount   float64 `json:"sgstAmount"`
	TotalAmount  float64 `json:"totalAmount"`
}

// Key identifies a line item for de-duplication across chunks.
func (li LineItem) Key() string {
	return fmt.Sprintf("%s\x1f%v\x1f%v", li.ItemName, li.Quantity, li.RatePerUnit)
}
