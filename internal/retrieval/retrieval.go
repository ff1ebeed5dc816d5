// Package retrieval selects document chunks relevant to a question by
// lexical token overlap and assembles a bounded context for the answerer.
package retrieval

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"pdfinsight/internal/model"
)

const minTokenLen = 2

// Bilingual function words dropped before scoring. Questions made entirely
// of these yield no chunks at all, on purpose.
var stopWords = map[string]struct{}{
	// English
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "with": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "it": {}, "its": {}, "as": {}, "by": {},
	"from": {}, "what": {}, "which": {}, "who": {}, "whom": {}, "how": {},
	"why": {}, "when": {}, "where": {}, "not": {}, "no": {}, "do": {},
	"does": {}, "did": {}, "can": {}, "could": {}, "will": {}, "would": {},
	"should": {}, "about": {}, "into": {}, "than": {}, "then": {}, "there": {},
	// Turkish
	"ve": {}, "veya": {}, "ile": {}, "bir": {}, "bu": {}, "şu": {}, "da": {},
	"de": {}, "mi": {}, "mu": {}, "mü": {}, "mı": {}, "ne": {}, "için": {},
	"gibi": {}, "ama": {}, "fakat": {}, "çok": {}, "daha": {}, "en": {},
	"kadar": {}, "sonra": {}, "önce": {}, "var": {}, "yok": {}, "olarak": {},
	"olan": {}, "her": {}, "hangi": {}, "nasıl": {}, "neden": {}, "niçin": {},
	"kim": {}, "nerede": {}, "hem": {}, "ki": {}, "ya": {}, "ise": {},
}

// Tokenize lower-cases the input and extracts maximal runs of letters and
// digits, dropping stop words and tokens shorter than two runes.
func Tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	var current []rune

	flush := func() {
		if len(current) >= minTokenLen {
			token := string(current)
			if _, stop := stopWords[token]; !stop {
				tokens[token] = struct{}{}
			}
		}
		current = current[:0]
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current = append(current, r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// ScoredChunk pairs a chunk with its overlap score.
type ScoredChunk struct {
	Chunk model.DocumentChunk
	Score int
}

// TopChunks scores every chunk by the size of the intersection between its
// token set and the question's, keeps positive scores, and returns the k
// best. Ties keep the incoming chunk-index order. Chunks must arrive
// ordered by chunk index.
func TopChunks(question string, chunks []model.DocumentChunk, k int) []ScoredChunk {
	if k <= 0 {
		return nil
	}
	questionTokens := Tokenize(question)
	if len(questionTokens) == 0 {
		return nil
	}

	var scored []ScoredChunk
	for _, chunk := range chunks {
		score := 0
		for token := range Tokenize(chunk.Text) {
			if _, ok := questionTokens[token]; ok {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, ScoredChunk{Chunk: chunk, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

// BuildContext renders the ranked chunks as labeled blocks and accumulates
// whole blocks until the next one would push the output past maxChars.
// Blocks are never truncated.
func BuildContext(chunks []ScoredChunk, maxChars int) string {
	const separator = "\n\n"

	var parts []string
	total := 0
	for _, sc := range chunks {
		block := fmt.Sprintf("[chunk %d | pages %d-%d]\n%s\n",
			sc.Chunk.ChunkIndex, sc.Chunk.PageStart, sc.Chunk.PageEnd, sc.Chunk.Text)

		cost := len(block)
		if len(parts) > 0 {
			cost += len(separator)
		}
		if total+cost > maxChars {
			break
		}
		parts = append(parts, block)
		total += cost
	}

	return strings.TrimSpace(strings.Join(parts, separator))
}
