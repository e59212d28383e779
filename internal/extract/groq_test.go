package extract

import (
	"errors"
	"testing"
)

func TestStripCodeBlock(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, c := range cases {
		if got := stripCodeBlock(c.in); got != c.want {
			t.Errorf("stripCodeBlock(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsJSONObject(t *testing.T) {
	if !isJSONObject([]byte("  {\"a\":1}")) {
		t.Errorf("expected object detection with leading whitespace")
	}
	if isJSONObject([]byte("[1,2]")) {
		t.Errorf("array misdetected as object")
	}
	if isJSONObject([]byte("")) {
		t.Errorf("empty input misdetected as object")
	}
}

func TestInvoiceSchemaRejectsStringNumbers(t *testing.T) {
	schema := BuildInvoiceSchema()

	good := []byte(`{"voucherNo":"42","lineItems":[{"itemName":"Widget","quantity":2,"ratePerUnit":450,"totalAmount":900}],"grandTotal":900}`)
	if err := ValidateJSONAgainstSchema(schema, good); err != nil {
		t.Fatalf("expected valid invoice to pass, got %v", err)
	}

	bad := []byte(`{"lineItems":[{"itemName":"Widget","quantity":"2","ratePerUnit":450,"totalAmount":"900.00"}]}`)
	if err := ValidateJSONAgainstSchema(schema, bad); err == nil {
		t.Fatalf("expected string-typed numerics to fail validation")
	}
}

func TestStatementSchemaTolerantOfNonArrayValues(t *testing.T) {
	schema := BuildStatementSchema()

	doc := []byte(`{"note":"partial","UPI Transactions":[{"Date":"1","Mode":"UPI","Particulars":"x","Deposits":"0","Withdrawals":"1","Balance":""}]}`)
	if err := ValidateJSONAgainstSchema(schema, doc); err != nil {
		t.Fatalf("expected non-array category value to pass schema, got %v", err)
	}

	badTx := []byte(`{"UPI Transactions":[{"Date":"1"}]}`)
	if err := ValidateJSONAgainstSchema(schema, badTx); err == nil {
		t.Fatalf("expected transaction missing required fields to fail")
	}
}

func TestMalformedResponseErrorMatchesSentinel(t *testing.T) {
	err := error(&MalformedResponseError{Reason: "not an object"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected errors.Is match on ErrMalformedResponse")
	}
}
