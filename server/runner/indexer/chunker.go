package indexer

import (
	"strings"
	"unicode"
)

// SplitText splits a long document into chunks of at most chunkSize
// characters with chunkOverlap characters carried between consecutive
// chunks. It preserves paragraph boundaries when possible.
func SplitText(content string, chunkSize, chunkOverlap int) []string {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 0
	}
	if len(content) <= chunkSize {
		return []string{content}
	}

	paragraphs := splitParagraphs(content)

	var chunks []string
	var currentChunk strings.Builder

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		// If adding this paragraph exceeds chunk size, close the
		// current chunk and seed the next one with the overlap.
		if currentChunk.Len()+len(para) > chunkSize && currentChunk.Len() > 0 {
			chunks = append(chunks, currentChunk.String())

			currentChunk.Reset()
			overlapText := getOverlapText(chunks, chunkOverlap)
			if overlapText != "" {
				currentChunk.WriteString(overlapText)
				currentChunk.WriteString("\n\n")
			}
		}

		if currentChunk.Len() > 0 {
			currentChunk.WriteString("\n\n")
		}
		currentChunk.WriteString(para)

		// Force-split paragraphs longer than a whole chunk.
		for currentChunk.Len() > chunkSize {
			text := currentChunk.String()
			breakPoint := findBreakPoint(text[:chunkSize])
			chunks = append(chunks, text[:breakPoint])

			remaining := text[breakPoint:]
			currentChunk.Reset()
			currentChunk.WriteString(remaining)
		}
	}

	if currentChunk.Len() > 0 {
		chunks = append(chunks, currentChunk.String())
	}

	return chunks
}

// splitParagraphs splits content into paragraphs at blank lines.
func splitParagraphs(content string) []string {
	lines := strings.FieldsFunc(content, func(r rune) bool {
		return r == '\n' || r == '\r'
	})

	var result []string
	var current strings.Builder

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if current.Len() > 0 {
				result = append(result, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(line)
	}

	if current.Len() > 0 {
		result = append(result, current.String())
	}

	return result
}

// getOverlapText returns the last overlapSize characters from the
// previous chunk, preferring a word boundary.
func getOverlapText(chunks []string, overlapSize int) string {
	if len(chunks) == 0 || overlapSize == 0 {
		return ""
	}

	lastChunk := chunks[len(chunks)-1]
	if len(lastChunk) <= overlapSize {
		return lastChunk
	}

	overlapText := lastChunk[len(lastChunk)-overlapSize:]
	if idx := strings.IndexAny(overlapText, " \t"); idx > 0 {
		return overlapText[idx+1:]
	}

	return overlapText
}

// findBreakPoint finds a good position to split text (sentence or word
// boundary), falling back to a hard split.
func findBreakPoint(text string) int {
	for i := len(text) - 1; i >= 0; i-- {
		if text[i] == '.' || text[i] == '!' || text[i] == '?' {
			if i == len(text)-1 || unicode.IsSpace(rune(text[i+1])) {
				return i + 1
			}
		}
	}

	for i := len(text) - 1; i >= len(text)/2; i-- {
		if unicode.IsSpace(rune(text[i])) {
			return i
		}
	}

	return len(text)
}
