package indexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortDocument(t *testing.T) {
	chunks := SplitText("short document", 1000, 0)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short document", chunks[0])
}

func TestSplitTextBoundsChunkSize(t *testing.T) {
	paragraphs := make([]string, 10)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat("word ", 60)
	}
	content := strings.Join(paragraphs, "\n\n")

	chunks := SplitText(content, 500, 50)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		// Overlap seeding may push a chunk slightly past the limit
		// before the force-split, but never beyond size+overlap.
		assert.LessOrEqual(t, len(chunk), 500+50+2)
	}
}

func TestSplitTextForceSplitsLongParagraph(t *testing.T) {
	content := strings.Repeat("abcdefghij", 300) // 3000 chars, no spaces

	chunks := SplitText(content, 1000, 0)
	require.GreaterOrEqual(t, len(chunks), 3)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 1000)
	}
	assert.Equal(t, content, strings.Join(chunks, ""))
}

func TestSplitTextPrefersSentenceBoundary(t *testing.T) {
	content := strings.Repeat("This is a sentence. ", 100)

	chunks := SplitText(content, 200, 0)
	require.Greater(t, len(chunks), 1)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(chunks[0]), "."))
}

func TestSplitTextInvalidParams(t *testing.T) {
	// Degenerate size and overlap fall back to defaults.
	chunks := SplitText("hello", 0, -5)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello", chunks[0])
}
