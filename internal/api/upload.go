package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledgerlens/ledgerlens/internal/extract"
	"github.com/ledgerlens/ledgerlens/internal/normalize"
)

// readUpload pulls the "file" part out of a multipart request, enforcing the
// upload size limit. On failure it writes the error response and returns
// ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (data []byte, filename string, ok bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), "bad_request", http.StatusBadRequest)
		return nil, "", false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), "bad_request", http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	filename = sanitizeFilename(header.Filename)

	data, err = io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", "read_failed", http.StatusInternalServerError)
		return nil, "", false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes),
			"file_too_large", http.StatusRequestEntityTooLarge)
		return nil, "", false
	}

	return data, filename, true
}

// writeExtractionError maps pipeline errors onto the response contract:
// input problems are the caller's fault, model problems are a bad gateway.
func (s *Server) writeExtractionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, normalize.ErrUnsupportedFileType):
		jsonError(w, err.Error(), "unsupported_file_type", http.StatusBadRequest)
	case errors.Is(err, normalize.ErrEmptyConversion):
		jsonError(w, err.Error(), "empty_conversion", http.StatusBadRequest)
	case errors.Is(err, extract.ErrMalformedResponse):
		jsonError(w, err.Error(), "malformed_model_response", http.StatusBadGateway)
	default:
		s.log.Error("extraction.failed", "path", r.URL.Path, "error", err)
		jsonError(w, err.Error(), "model_call_failed", http.StatusBadGateway)
	}
}

func jsonError(w http.ResponseWriter, msg, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": code})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
