package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/ledgerlens/ledgerlens/internal/parser"
	"github.com/ledgerlens/ledgerlens/internal/pipeline"
)

func (s *Server) handleInvoices(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
			"unsupported_file_type", http.StatusBadRequest)
		return
	}

	resp, err := s.pipe.ExtractInvoice(r.Context(), pipeline.InvoiceRequest{
		FileData: data,
		Filename: filename,
	})
	if err != nil {
		s.writeExtractionError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"data": resp.Invoice,
		"meta": map[string]any{
			"chunks":     resp.Chunks,
			"line_items": len(resp.Invoice.Items),
		},
	})
}
