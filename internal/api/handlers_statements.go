package api

import (
	"encoding/json"
	"net/http"

	"github.com/ledgerlens/ledgerlens/internal/pipeline"
)

func (s *Server) handleStatements(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	resp, err := s.pipe.ExtractStatement(r.Context(), pipeline.StatementRequest{
		FileData:  data,
		Filename:  filename,
		Ledger:    r.FormValue("ledger"),
		BankName:  r.FormValue("bank_name"),
		DateRange: r.FormValue("date_range"),
	})
	if err != nil {
		s.writeExtractionError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"data": resp.Result,
		"meta": map[string]any{
			"categories":          resp.Categories,
			"transactions":        resp.Transactions,
			"chunks":              resp.Chunks,
			"date_filter_applied": resp.DateFilterApplied,
		},
	})
}
