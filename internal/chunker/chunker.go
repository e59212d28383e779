package chunker

import "strings"

// Chunk is a size-bounded slice of input text, tagged with its position so
// results can be collected back into input order after concurrent extraction.
type Chunk struct {
	Index int
	Total int
	Body  string
}

// Config carries the byte budgets for the two chunking modes.
type Config struct {
	CSVChunkBytes  int // budget for statement CSV chunks
	TextChunkBytes int // budget for free-form text chunks
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		CSVChunkBytes:  4000,
		TextChunkBytes: 8000,
	}
}

// ChunkCSV splits CSV content into chunks of roughly limit bytes. The first
// line is treated as the header and repeated on every chunk so each chunk is
// independently parseable. Data rows keep their original order; no row is
// split, duplicated, or dropped. A row longer than the budget still lands in
// the current chunk whole, so a chunk may exceed the nominal limit.
func ChunkCSV(content string, limit int) []Chunk {
	if limit <= 0 {
		limit = DefaultConfig().CSVChunkBytes
	}

	lines := splitLines(content)
	if len(lines) <= 1 {
		return []Chunk{{Index: 0, Total: 1, Body: content}}
	}

	header := lines[0]
	var bodies []string
	var current strings.Builder

	for _, line := range lines[1:] {
		if current.Len() > 0 && current.Len()+len(line)+1 > limit {
			bodies = append(bodies, header+"\n"+current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		bodies = append(bodies, header+"\n"+current.String())
	}

	return tagChunks(bodies)
}

// ChunkText splits free-form text into chunks of roughly limit bytes using
// the same greedy line packing, with no header concept. Content that already
// fits is returned unchanged as a single chunk.
func ChunkText(content string, limit int) []Chunk {
	if limit <= 0 {
		limit = DefaultConfig().TextChunkBytes
	}
	if len(content) <= limit {
		return []Chunk{{Index: 0, Total: 1, Body: content}}
	}

	var bodies []string
	var current strings.Builder

	for _, line := range splitLines(content) {
		if current.Len() > 0 && current.Len()+len(line)+1 > limit {
			bodies = append(bodies, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		bodies = append(bodies, current.String())
	}

	return tagChunks(bodies)
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func tagChunks(bodies []string) []Chunk {
	chunks := make([]Chunk, 0, len(bodies))
	for i, b := range bodies {
		chunks = append(chunks, Chunk{Index: i, Total: len(bodies), Body: b})
	}
	return chunks
}
