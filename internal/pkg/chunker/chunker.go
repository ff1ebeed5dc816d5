// Package chunker groups extracted pages into fixed-size page-range chunks.
package chunker

import "strings"

// GroupPages is the number of pages per chunk. Fixed on purpose: page-range
// chunks are deterministic and cheap, and the retrieval layer only needs
// coarse locality, not semantic boundaries.
const GroupPages = 2

// Chunk is one emitted page-range excerpt. PageStart/PageEnd are 1-based
// inclusive; Index is zero-based and dense over emitted chunks only.
type Chunk struct {
	Index     int
	PageStart int
	PageEnd   int
	Text      string
}

// Build groups pages two at a time in order. Non-empty page texts within a
// group are joined with a blank line and trimmed; groups with no text are
// skipped entirely and do not consume an index.
func Build(pages []string) []Chunk {
	var chunks []Chunk
	total := len(pages)
	index := 0

	for i := 0; i < total; i += GroupPages {
		pageStart := i + 1
		pageEnd := i + GroupPages
		if pageEnd > total {
			pageEnd = total
		}

		text := JoinPages(pages[i:pageEnd])
		if text == "" {
			continue
		}

		chunks = append(chunks, Chunk{
			Index:     index,
			PageStart: pageStart,
			PageEnd:   pageEnd,
			Text:      text,
		})
		index++
	}
	return chunks
}

// JoinPages concatenates non-empty page texts with blank-line separators and
// trims the result.
func JoinPages(pages []string) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}
