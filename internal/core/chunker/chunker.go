package chunker

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize        = 500
	DefaultOverlap          = 50
	DefaultBoundaryFraction = 0.5
)

// Sentence-terminating patterns, checked in priority order.
var sentenceEnders = []string{". ", "! ", "? "}

// Splitter cuts text into bounded, overlapping chunks, preferring sentence
// boundaries and falling back to word boundaries, then hard cuts.
type Splitter struct {
	// ChunkSize is the tentative chunk length in bytes.
	ChunkSize int
	// Overlap is carried over between consecutive chunks.
	Overlap int
	// BoundaryFraction rejects sentence cuts before ChunkSize*fraction,
	// which would otherwise produce very short chunks.
	BoundaryFraction float64
}

// NewSplitter normalizes out-of-range parameters to defaults.
func NewSplitter(chunkSize, overlap int, boundaryFraction float64) Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if boundaryFraction <= 0 || boundaryFraction >= 1 {
		boundaryFraction = DefaultBoundaryFraction
	}
	return Splitter{ChunkSize: chunkSize, Overlap: overlap, BoundaryFraction: boundaryFraction}
}

// Split returns the chunk sequence for text. Empty or all-whitespace text
// yields no chunks. Text within ChunkSize is returned whole, unsplit.
func (s Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= s.ChunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + s.ChunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = s.cut(text, start, end)
		}

		if piece := strings.TrimSpace(text[start:end]); piece != "" {
			chunks = append(chunks, piece)
		}
		if end >= len(text) {
			break
		}

		// Advance with overlap; always move at least one rune forward so
		// overlap >= chunk size cannot stall the scan.
		next := runeStart(text, end-s.Overlap)
		if next <= start {
			_, size := utf8.DecodeRuneInString(text[start:])
			next = start + size
		}
		start = next
	}
	return chunks
}

// cut picks the chunk end within [start, start+ChunkSize): the nearest
// sentence boundary past the acceptance threshold, else the nearest space
// strictly after start, else the tentative hard cut.
func (s Splitter) cut(text string, start, end int) int {
	window := text[start:end]
	threshold := start + int(float64(s.ChunkSize)*s.BoundaryFraction)

	for _, pat := range sentenceEnders {
		if i := strings.LastIndex(window, pat); i >= 0 {
			if p := start + i + len(pat); p > threshold {
				return p
			}
		}
	}
	if i := strings.LastIndex(window, " "); i > 0 {
		return start + i
	}
	// Hard cut: back off to a rune boundary so a multi-byte rune is never
	// split across chunks.
	return runeStart(text, end)
}

// runeStart returns the largest offset <= i that starts a rune.
func runeStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
