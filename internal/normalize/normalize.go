// Package normalize converts uploaded spreadsheet files into CSV text the
// extraction pipeline can chunk. It is a pure transform over the provided
// bytes; the caller owns the upload and its cleanup.
package normalize

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFileType is returned for extensions the normalizer
	// does not handle.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrEmptyConversion is returned when the conversion produced no text.
	ErrEmptyConversion = errors.New("conversion produced empty output")
)

// ToCSV turns file bytes into newline-delimited CSV text based on the
// declared original filename. CSV passes through as decoded text; XLSX/XLS
// workbooks are serialized from their first worksheet with cells rendered as
// display strings.
func ToCSV(data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var content string
	var err error
	switch ext {
	case ".csv":
		content = string(data)
	case ".xlsx", ".xls":
		content, err = sheetToCSV(data)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}

	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyConversion
	}
	return content, nil
}

// sheetToCSV serializes the first worksheet only. Formatted cell values are
// used so dates and numbers come out as their display strings.
func sheetToCSV(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrEmptyConversion
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read worksheet %q: %w", sheets[0], err)
	}

	var b strings.Builder
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		for i, cell := range row {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(escapeCell(cell))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func escapeCell(cell string) string {
	if strings.ContainsAny(cell, ",\"\n") {
		return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	return cell
}
