package recommend

import (
	"fmt"
	"strings"

	"github.com/hrygo/animesense/plugin/ai"
	"github.com/hrygo/animesense/store"
)

const (
	// maxContextDocs bounds how many retrieved chunks enter the prompt.
	maxContextDocs = 15
	// maxSnippetChars bounds each chunk's contribution to the prompt,
	// leaving room for 10-12 recommendations within the token limit.
	maxSnippetChars = 200
)

const systemPrompt = `You are an intelligent anime recommender that uses content-based filtering and cosine similarity.
You are given context data about various anime, including their name, genre, rating, and synopsis.

Your job:
- Understand the user's interest.
- If the user searches by an exact anime title, suggest that title and all relevant similar anime from the context.
- If the user's input refers to a Hollywood or non-anime movie, do NOT attempt to match it directly. Instead, recommend the top-rated anime from the context.
- Match the user's preferences with similar anime from the context.
- IMPORTANT: Provide 10-12 anime recommendations if available in the context. If fewer are available, provide as many as possible.
- Respond strictly in JSON format for frontend use.
- Do not include any extra text outside the JSON.

Your response must be a JSON array like this:
[
  {
    "recommended_title": "string",
    "genre": ["string"],
    "rating": float,
    "match_score": float (between 0 and 1)
  }
]

Do not include any extra text outside the JSON.`

// buildMessages assembles the fixed prompt from the retrieved context
// and the literal query. An empty context is legal.
func buildMessages(query string, context []*store.ChunkWithScore) []ai.Message {
	return []ai.Message{
		ai.SystemPrompt(systemPrompt),
		ai.UserMessage(fmt.Sprintf("Context:\n%s\n\nUser question or preference: %s", formatContext(context), query)),
	}
}

// formatContext concatenates retrieved snippets, capped in both count
// and per-snippet length.
func formatContext(results []*store.ChunkWithScore) string {
	if len(results) > maxContextDocs {
		results = results[:maxContextDocs]
	}

	snippets := make([]string, 0, len(results))
	for _, result := range results {
		snippets = append(snippets, truncate(result.Chunk.Content, maxSnippetChars))
	}
	return strings.Join(snippets, "\n\n")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
