package parser

import (
	"strings"
	"testing"
)

func TestTextParser_PreservesLines(t *testing.T) {
	input := "Invoice No: INV-001\nDate: 04/04/2025\n\nParty: Acme Traders"
	p := &TextParser{}
	text, err := p.Parse(strings.NewReader(input), "invoice.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Invoice No: INV-001\nDate: 04/04/2025\n\nParty: Acme Traders"
	if text != want {
		t.Errorf("expected %q, got %q", want, text)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	text, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty output, got %q", text)
	}
}

func TestTextParser_TrimsSurroundingWhitespace(t *testing.T) {
	p := &TextParser{}
	text, err := p.Parse(strings.NewReader("\n\n  Hello world  \n\n"), "single.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Hello world" {
		t.Errorf("expected %q, got %q", "Hello world", text)
	}
}

func TestMarkdownParser_FlattensHeadingsAndBody(t *testing.T) {
	input := "# Tax Invoice\n\nParty: Acme Traders\n\n## Items\n\n- Widget x2\n- Gadget x1\n"
	p := &MarkdownParser{}
	text, err := p.Parse(strings.NewReader(input), "invoice.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Tax Invoice", "Party: Acme Traders", "Items", "Widget x2"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected output to contain %q, got %q", want, text)
		}
	}
	if strings.Contains(text, "#") {
		t.Errorf("heading markers should not survive, got %q", text)
	}
}

func TestHTMLParser_ExtractsBodyText(t *testing.T) {
	input := `<html><head><title>Invoice</title><style>p{color:red}</style></head>
<body><h1>Tax Invoice</h1><p>Party: Acme Traders</p>
<table><tr><td>Widget</td><td>2</td></tr></table>
<script>alert("x")</script></body></html>`
	p := &HTMLParser{}
	text, err := p.Parse(strings.NewReader(input), "invoice.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Tax Invoice", "Party: Acme Traders", "Widget"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected output to contain %q, got %q", want, text)
		}
	}
	if strings.Contains(text, "alert") {
		t.Errorf("script content should be skipped, got %q", text)
	}
	if strings.Contains(text, "color:red") {
		t.Errorf("style content should be skipped, got %q", text)
	}
}

func TestForFile_SelectsByExtension(t *testing.T) {
	cases := []struct {
		filename string
		wantType string
	}{
		{"doc.pdf", "*parser.PDFParser"},
		{"doc.docx", "*parser.DOCXParser"},
		{"doc.txt", "*parser.TextParser"},
		{"doc.md", "*parser.MarkdownParser"},
		{"doc.html", "*parser.HTMLParser"},
		{"doc.HTM", "*parser.HTMLParser"},
	}
	for _, tc := range cases {
		p, err := ForFile(tc.filename)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.filename, err)
		}
		if got := typeName(p); got != tc.wantType {
			t.Errorf("%s: expected %s, got %s", tc.filename, tc.wantType, got)
		}
	}
}

func TestForFile_UnsupportedExtension(t *testing.T) {
	if _, err := ForFile("doc.xlsx"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *PDFParser:
		return "*parser.PDFParser"
	case *DOCXParser:
		return "*parser.DOCXParser"
	case *TextParser:
		return "*parser.TextParser"
	case *MarkdownParser:
		return "*parser.MarkdownParser"
	case *HTMLParser:
		return "*parser.HTMLParser"
	}
	return "unknown"
}
