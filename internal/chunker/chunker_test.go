package chunker

import (
	"strings"
	"testing"
)

func TestChunkCSV_SmallInputSingleChunk(t *testing.T) {
	content := "Date,Particulars,Amount\n01-01-2025,UPI/123,500"
	chunks := ChunkCSV(content, 4000)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 || chunks[0].Total != 1 {
		t.Errorf("expected (0,1) tags, got (%d,%d)", chunks[0].Index, chunks[0].Total)
	}
}

func TestChunkCSV_HeaderOnEveryChunk(t *testing.T) {
	header := "Date,Particulars,Deposits,Withdrawals,Balance"
	rows := []string{
		"01-01-2025,UPI/CRED/1,0,450,10550",
		"02-01-2025,NEFT SALARY,50000,0,60550",
		"03-01-2025,ATM WDL,0,2000,58550",
	}
	content := header + "\n" + strings.Join(rows, "\n")

	// Budget below the full data size but above any single row.
	chunks := ChunkCSV(content, 75)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		first, _, _ := strings.Cut(c.Body, "\n")
		if first != header {
			t.Errorf("chunk %d: expected header %q as first line, got %q", i, header, first)
		}
		if c.Index != i || c.Total != 2 {
			t.Errorf("chunk %d: bad tags (%d,%d)", i, c.Index, c.Total)
		}
	}
}

func TestChunkCSV_Reconstruction(t *testing.T) {
	header := "Date,Particulars,Deposits,Withdrawals"
	var rows []string
	for i := 0; i < 50; i++ {
		rows = append(rows, strings.Repeat("x", 20+i%7))
	}
	content := header + "\n" + strings.Join(rows, "\n")

	for _, limit := range []int{50, 100, 400, 100000} {
		chunks := ChunkCSV(content, limit)

		var got []string
		for _, c := range chunks {
			lines := strings.Split(c.Body, "\n")
			if lines[0] != header {
				t.Fatalf("limit %d: chunk missing header", limit)
			}
			got = append(got, lines[1:]...)
		}
		if len(got) != len(rows) {
			t.Fatalf("limit %d: expected %d data rows, got %d", limit, len(rows), len(got))
		}
		for i := range rows {
			if got[i] != rows[i] {
				t.Fatalf("limit %d: row %d out of order or altered", limit, i)
			}
		}
	}
}

func TestChunkCSV_OversizedRowNotSplit(t *testing.T) {
	header := "Date,Particulars"
	long := strings.Repeat("y", 500)
	content := header + "\n" + long + "\nshort"

	chunks := ChunkCSV(content, 100)

	for _, c := range chunks {
		if strings.Contains(c.Body, long[:250]) && !strings.Contains(c.Body, long) {
			t.Fatalf("oversized row was split across chunks")
		}
	}
	var all string
	for _, c := range chunks {
		all += c.Body
	}
	if !strings.Contains(all, long) {
		t.Fatalf("oversized row dropped")
	}
}

func TestChunkText_FitsReturnsUnchanged(t *testing.T) {
	content := "Invoice No: 42\nParty: Acme Traders"
	chunks := ChunkText(content, 8000)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Body != content {
		t.Errorf("expected content unchanged, got %q", chunks[0].Body)
	}
}

func TestChunkText_PacksLines(t *testing.T) {
	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, strings.Repeat("z", 30))
	}
	content := strings.Join(lines, "\n")

	chunks := ChunkText(content, 200)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	var got []string
	for _, c := range chunks {
		got = append(got, strings.Split(c.Body, "\n")...)
	}
	if len(got) != len(lines) {
		t.Fatalf("expected %d lines after reassembly, got %d", len(lines), len(got))
	}
	for i, c := range chunks {
		if c.Index != i || c.Total != len(chunks) {
			t.Errorf("chunk %d: bad tags (%d,%d)", i, c.Index, c.Total)
		}
	}
}

func TestChunkCSV_ZeroLimitUsesDefault(t *testing.T) {
	content := "h\na\nb"
	chunks := ChunkCSV(content, 0)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk under default budget, got %d", len(chunks))
	}
}
