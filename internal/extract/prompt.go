package extract

import (
	"fmt"
	"strings"
)

const statementPrompt = `You are a bank-statement categorization engine. The user message contains CSV rows from a bank statement (header line first). Return ONLY a JSON object mapping category names to arrays of transaction objects.

Each transaction object must have these string fields:
- "Date": the transaction date exactly as it appears in the row
- "Mode": the payment mode (UPI, NEFT, IMPS, RTGS, ATM, CHEQUE, CASH, or blank if unknown)
- "Particulars": the narration/description column verbatim
- "Deposits": credit amount, or "0" if none
- "Withdrawals": debit amount, or "0" if none
- "Balance": running balance if present, else ""

Categorization rules:
- Group transactions under descriptive category names such as "UPI Transactions", "Salary", "Bank Charges", "Interest", "Cheque Transactions", "Cash Transactions", "Transfers". Use "Other Transactions" when nothing fits.
- A transaction whose Particulars contains a rejection keyword (RETURN, RETURNED, REJECT, BOUNCE, REVERSAL, REVERSED, FAILED, RTN, DISHONOUR) goes under "Rejected Transactions" and ONLY there.
- For every transaction EXCEPT those under "Rejected Transactions", add "bankLedger" set to the ledger label given in the context, and "bankName" set to the bank name given in the context. Never add bankLedger or bankName to rejected transactions.
- Every data row in the input must appear in exactly one category. Do not invent rows, do not drop rows, do not total rows.
- Keep amounts exactly as printed. Do not reformat dates or numbers.

Respond with ONLY the JSON object, no other text.`

const invoicePrompt = `You are an invoice data extraction engine. The user message contains text extracted from a purchase or sales invoice. Return ONLY a JSON object with these fields:

- "voucherNo": invoice/bill number (string, "" if absent)
- "voucherDate": invoice date as printed (string, "" if absent)
- "partyName": buyer or supplier name (string)
- "partyAddress": party address (string, "" if absent)
- "gstNumber": GSTIN if printed (string, "" if absent)
- "lineItems": array of objects, one per billed item, with fields:
  "itemName" (string), "hsnCode" (string), "quantity" (number), "unit" (string),
  "ratePerUnit" (number), "totalValue" (number), "discount" (number),
  "taxableValue" (number), "cgstPercent" (number), "sgstPercent" (number),
  "cgstAmount" (number), "sgstAmount" (number), "totalAmount" (number)
- "subTotal": sum of taxable values as printed (number)
- "totalCGST": total CGST amount (number)
- "totalSGST": total SGST amount (number)
- "grandTotal": final invoice total (number)

Rules:
- Every numeric field must be a finalized number. Never output expressions like "2*450", percent-suffixed strings like "9%", or formatted strings like "1,250.00". Compute and emit plain numbers.
- Use 0 for numeric fields that are genuinely absent.
- If this is a partial slice of a longer invoice, extract only what is visible; leave header fields "" and totals 0 when they are not in this slice.

Respond with ONLY the JSON object, no other text.`

// BuildStatementRequest assembles the extraction call for one statement
// chunk, with ledger and bank hints and the chunk's position in the
// document.
func BuildStatementRequest(chunk string, ledger, bankName string, index, total int, temperature float32) CompletionRequest {
	var sb strings.Builder
	if total > 1 {
		fmt.Fprintf(&sb, "This is part %d of %d of the statement.\n", index+1, total)
	}
	if ledger != "" {
		fmt.Fprintf(&sb, "Ledger label for context: %q\n", ledger)
	} else {
		sb.WriteString("Ledger label for context: \"Suspense\"\n")
	}
	if bankName != "" {
		fmt.Fprintf(&sb, "Bank name for context: %q\n", bankName)
	}
	sb.WriteString("\nStatement rows:\n")
	sb.WriteString(chunk)

	return CompletionRequest{
		Kind:        "statement",
		System:      statementPrompt,
		User:        sb.String(),
		Temperature: temperature,
		Schema:      BuildStatementSchema(),
	}
}

// BuildInvoiceRequest assembles the extraction call for one slice of invoice
// text.
func BuildInvoiceRequest(text string, index, total int, temperature float32) CompletionRequest {
	var sb strings.Builder
	if total > 1 {
		fmt.Fprintf(&sb, "This is part %d of %d of the invoice text.\n\n", index+1, total)
	}
	sb.WriteString("Invoice text:\n")
	sb.WriteString(text)

	return CompletionRequest{
		Kind:        "invoice",
		System:      invoicePrompt,
		User:        sb.String(),
		Temperature: temperature,
		Schema:      BuildInvoiceSchema(),
	}
}
