// Package chunking turns document text into metadata-tagged chunks.
// It hosts the splitter, the metadata extractor, the company tag
// parser, and the strategy table that composes them.
package chunking

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// DefaultChunkSize is the default chunk budget in words.
const DefaultChunkSize = 512

// DefaultOverlap is the default overlap budget in words.
const DefaultOverlap = 64

// Config holds the splitting parameters shared by all strategies.
type Config struct {
	// ChunkSize is the chunk budget in words.
	ChunkSize int

	// Overlap is the overlap budget in words.
	Overlap int

	// PreserveSentences selects sentence-respecting chunking.
	// When false, plain word windows are used.
	PreserveSentences bool
}

// DefaultConfig returns the standard splitting configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize:         DefaultChunkSize,
		Overlap:           DefaultOverlap,
		PreserveSentences: true,
	}
}

// Validate rejects configurations the splitter cannot honour. The word
// window degenerates when overlap >= chunk size, so that combination is
// refused up front rather than guessed at.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, c.ChunkSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap must be non-negative, got %d", domain.ErrInvalidInput, c.Overlap)
	}
	if c.Overlap >= c.ChunkSize {
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", domain.ErrInvalidInput, c.Overlap, c.ChunkSize)
	}
	return nil
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Split divides text into chunks according to cfg. Identical input and
// configuration always produce an identical sequence. Empty or
// whitespace-only text yields no chunks.
func Split(text string, cfg Config) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	text = whitespaceRe.ReplaceAllString(text, " ")

	if cfg.PreserveSentences {
		return splitBySentences(text, cfg.ChunkSize, cfg.Overlap)
	}
	return splitByWords(text, cfg.ChunkSize, cfg.Overlap)
}

// splitBySentences accumulates whole sentences into chunks. A sentence
// is never broken across a chunk boundary; a single sentence longer
// than the chunk budget becomes its own oversized chunk. New chunks are
// seeded with as many trailing sentences of the previous chunk as fit
// the overlap budget.
func splitBySentences(text string, chunkSize, overlap int) []string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return []string{text}
	}

	var chunks []string
	var current []string
	currentWords := 0

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		sentenceWords := len(strings.Fields(sentence))

		if currentWords+sentenceWords > chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))

			// Seed the next chunk with trailing sentences that fit
			// the overlap budget, taken whole.
			var carried []string
			carriedWords := 0
			for i := len(current) - 1; i >= 0; i-- {
				w := len(strings.Fields(current[i]))
				if carriedWords+w > overlap {
					break
				}
				carried = append([]string{current[i]}, carried...)
				carriedWords += w
			}
			current = carried
			currentWords = carriedWords
		}

		current = append(current, sentence)
		currentWords += sentenceWords
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}

// splitByWords produces fixed word windows advancing by
// chunkSize - overlap words. The last window may be short.
func splitByWords(text string, chunkSize, overlap int) []string {
	words := strings.Fields(text)
	step := chunkSize - overlap

	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[i:end], " ")
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	return chunks
}

// SplitSentences splits text at sentence boundaries: terminal
// punctuation followed by whitespace and an uppercase letter. The
// heuristic tolerates common abbreviations by requiring the uppercase
// continuation.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		// Find the next non-whitespace rune.
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) {
			continue // no whitespace gap, or end of text
		}
		if !unicode.IsUpper(runes[j]) {
			continue
		}

		s := strings.TrimSpace(string(runes[start : i+1]))
		if s != "" {
			sentences = append(sentences, s)
		}
		start = j
		i = j - 1
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}

	return sentences
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
