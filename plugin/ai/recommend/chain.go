package recommend

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/hrygo/animesense/plugin/ai"
	"github.com/hrygo/animesense/store"
)

// Retriever resolves a query to its most similar catalog chunks.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]*store.ChunkWithScore, error)
}

// Chain orchestrates retrieve → prompt → generate → parse for one query.
// It holds no per-request state and is safe for concurrent use.
type Chain struct {
	retriever Retriever
	llm       ai.LLMService
	searchK   int
}

// NewChain creates a recommendation chain.
func NewChain(retriever Retriever, llm ai.LLMService, searchK int) *Chain {
	if searchK <= 0 {
		searchK = 10
	}
	return &Chain{
		retriever: retriever,
		llm:       llm,
		searchK:   searchK,
	}
}

// Recommend answers one query. Every failure past this point is caught
// here and converted into a populated Error field; the method never
// panics and never returns a fault to the HTTP layer.
func (c *Chain) Recommend(ctx context.Context, query string) *Response {
	// Similarity search is idempotent and cheap, so retry once on any
	// failure before surfacing it.
	retrieved, err := c.retriever.Search(ctx, query, c.searchK)
	if err != nil && ctx.Err() == nil {
		retrieved, err = c.retriever.Search(ctx, query, c.searchK)
	}
	if err != nil {
		slog.Warn("retrieval failed", "query", query, "error", err)
		return errorResponse(query, errors.Wrapf(ErrRetrieval, "%v", err))
	}

	messages := buildMessages(query, retrieved)

	var output string
	err = ai.DoWithRetry(ctx, func() error {
		var chatErr error
		output, chatErr = c.llm.Chat(ctx, messages)
		return chatErr
	})
	if err != nil {
		slog.Warn("generation failed", "query", query, "error", err)
		return errorResponse(query, errors.Wrapf(ErrGeneration, "%v", err))
	}

	recommendations, err := parseRecommendations(output)
	if err != nil {
		slog.Warn("parse failed", "query", query, "error", err)
		return errorResponse(query, err)
	}

	return &Response{
		Recommendations: recommendations,
		Query:           query,
		Error:           nil,
	}
}
