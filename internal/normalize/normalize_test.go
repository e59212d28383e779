package normalize

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestToCSV_CSVPassthrough(t *testing.T) {
	in := "Date,Particulars,Amount\n01-01-2025,UPI/1,500\n"
	out, err := ToCSV([]byte(in), "statement.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != in {
		t.Errorf("expected passthrough, got %q", out)
	}
}

func TestToCSV_XLSXFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetCellValue("Sheet1", "A1", "Date")
	_ = f.SetCellValue("Sheet1", "B1", "Particulars")
	_ = f.SetCellValue("Sheet1", "A2", "01-01-2025")
	_ = f.SetCellValue("Sheet1", "B2", "NEFT, SALARY")

	// A second sheet that must be ignored.
	_, _ = f.NewSheet("Extra")
	_ = f.SetCellValue("Extra", "A1", "ignored")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	out, err := ToCSV(buf.Bytes(), "statement.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "Date,Particulars" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != `01-01-2025,"NEFT, SALARY"` {
		t.Errorf("expected quoted cell with comma, got %q", lines[1])
	}
	if strings.Contains(out, "ignored") {
		t.Errorf("second worksheet leaked into output")
	}
}

func TestToCSV_UnsupportedExtension(t *testing.T) {
	_, err := ToCSV([]byte("x"), "statement.pdf")
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
}

func TestToCSV_EmptyConversion(t *testing.T) {
	_, err := ToCSV([]byte("   \n  \n"), "blank.csv")
	if !errors.Is(err, ErrEmptyConversion) {
		t.Fatalf("expected ErrEmptyConversion, got %v", err)
	}
}
