// -----------------------------------------------------------------------
// Text Chunker - Boundary-aware splitting for the retrieval index
// -----------------------------------------------------------------------

package retrieval

import (
	"strings"
	"unicode/utf8"
)

// Chunker splits document text into overlapping chunks. Split points
// prefer paragraph breaks over sentence ends over word boundaries so
// chunks stay semantically coherent.
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker creates a chunker with the given size and overlap in
// characters. Bad values fall back to 1000/200.
func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 200
		if overlap >= chunkSize {
			overlap = chunkSize / 5
		}
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// Split breaks text into chunks. Text at or under the chunk size comes
// back as a single chunk; empty text yields none.
func (c *Chunker) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= c.chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + c.chunkSize
		if end >= len(text) {
			chunk := strings.TrimSpace(text[start:])
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		cut := c.findSplit(text, start, end)
		chunk := strings.TrimSpace(text[start:cut])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := runeStart(text, cut-c.overlap)
		if next <= start {
			// Overlap would stall the scan on degenerate input
			_, size := utf8.DecodeRuneInString(text[start:])
			next = start + size
		}
		start = next
	}
	return chunks
}

// findSplit picks the best cut position in text[start:end], searching the
// back half of the window so chunks never collapse to fragments.
func (c *Chunker) findSplit(text string, start, end int) int {
	window := text[start:end]
	floor := len(window) / 2

	// Paragraph boundary
	if i := strings.LastIndex(window, "\n\n"); i > floor {
		return start + i + 2
	}

	// Sentence boundary
	best := -1
	for _, sep := range []string{". ", "! ", "? ", ".\n", "!\n", "?\n"} {
		if i := strings.LastIndex(window, sep); i > floor && i+len(sep) > best {
			best = i + len(sep)
		}
	}
	if best > 0 {
		return start + best
	}

	// Line, then word boundary
	if i := strings.LastIndex(window, "\n"); i > floor {
		return start + i + 1
	}
	if i := strings.LastIndex(window, " "); i > floor {
		return start + i + 1
	}

	return runeStart(text, end)
}

// runeStart walks pos back to the first byte of the rune it lands inside
func runeStart(text string, pos int) int {
	for pos > 0 && pos < len(text) && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}
