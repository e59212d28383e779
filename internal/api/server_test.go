package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ledgerlens/ledgerlens/internal/config"
	"github.com/ledgerlens/ledgerlens/internal/extract"
	"github.com/ledgerlens/ledgerlens/internal/pipeline"
)

type stubModel struct {
	response string
}

func (c *stubModel) Complete(_ context.Context, _ extract.CompletionRequest) ([]byte, error) {
	return []byte(c.response), nil
}

func newTestServer(response string) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		ServiceAPIKey:  "test-key",
		MaxUploadBytes: 25 << 20,
	}
	pcfg := pipeline.DefaultConfig()
	pcfg.BatchPause = 0
	pcfg.RetryDelay = 0
	pipe := pipeline.New(&stubModel{response: response}, pcfg, log, nil)
	return NewServer(pipe, nil, log, cfg)
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(content)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestStatements_RequiresAuth(t *testing.T) {
	srv := newTestServer("{}")
	req := httptest.NewRequest(http.MethodPost, "/api/statements", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestStatements_HappyPath(t *testing.T) {
	srv := newTestServer(`{"Salary Income":[{"Date":"01-01-2025","Mode":"NEFT","Particulars":"SALARY","Deposits":"1000","Withdrawals":"","Balance":"5000"}]}`)

	csv := []byte("Date,Particulars,Deposits,Withdrawals,Balance\n01-01-2025,SALARY,1000,,5000\n")
	body, contentType := multipartBody(t, "statement.csv", csv, map[string]string{
		"ledger":    "HDFC Bank",
		"bank_name": "HDFC",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/statements", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data map[string]json.RawMessage `json:"data"`
		Meta struct {
			Categories   int  `json:"categories"`
			Transactions int  `json:"transactions"`
			Chunks       int  `json:"chunks"`
			Applied      bool `json:"date_filter_applied"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := resp.Data["Salary Income"]; !ok {
		t.Errorf("expected Salary Income category in response: %s", rec.Body.String())
	}
	if resp.Meta.Transactions != 1 || resp.Meta.Categories != 1 || resp.Meta.Chunks != 1 {
		t.Errorf("unexpected meta: %+v", resp.Meta)
	}
}

func TestStatements_UnsupportedFileType(t *testing.T) {
	srv := newTestServer("{}")
	body, contentType := multipartBody(t, "statement.pdf", []byte("x"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/statements", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["code"] != "unsupported_file_type" {
		t.Errorf("expected code unsupported_file_type, got %q", resp["code"])
	}
}

func TestInvoices_MalformedModelResponse(t *testing.T) {
	srv := newTestServer(`["not","an","invoice"]`)
	body, contentType := multipartBody(t, "invoice.txt", []byte("Invoice No: INV-1"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/invoices", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer test-key")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["code"] != "malformed_model_response" {
		t.Errorf("expected code malformed_model_response, got %q", resp["code"])
	}
}

func TestHealth_Public(t *testing.T) {
	srv := newTestServer("{}")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
