package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/animesense/plugin/ai"
	"github.com/hrygo/animesense/store"
)

type mockRetriever struct {
	results []*store.ChunkWithScore
	errs    []error
	calls   int
}

func (m *mockRetriever) Search(_ context.Context, _ string, k int) ([]*store.ChunkWithScore, error) {
	m.calls++
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if len(m.results) > k {
		return m.results[:k], nil
	}
	return m.results, nil
}

type mockLLM struct {
	outputs []string
	errs    []error
	calls   int
	prompts [][]ai.Message
}

func (m *mockLLM) Chat(_ context.Context, messages []ai.Message) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, messages)
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return "", err
		}
	}
	output := m.outputs[0]
	if len(m.outputs) > 1 {
		m.outputs = m.outputs[1:]
	}
	return output, nil
}

func narutoContext() []*store.ChunkWithScore {
	return []*store.ChunkWithScore{
		{
			Chunk: &store.CatalogChunk{
				ID:         "c1",
				Collection: "anime_embeddings",
				Title:      "Naruto Shippuden",
				Content:    "name: Naruto Shippuden\ngenre: ['Action', 'Drama', 'Fantasy']\nrating: 4.25",
			},
			Score: 0.93,
		},
	}
}

const narutoOutput = `[{"recommended_title": "Naruto Shippuden", "genre": ["Action", "Drama", "Fantasy"], "rating": 4.25, "match_score": 0.95}]`

func TestRecommendSuccess(t *testing.T) {
	retriever := &mockRetriever{results: narutoContext()}
	llm := &mockLLM{outputs: []string{narutoOutput}}
	chain := NewChain(retriever, llm, 10)

	resp := chain.Recommend(context.Background(), "Naruto")

	require.Nil(t, resp.Error)
	require.Len(t, resp.Recommendations, 1)
	rec := resp.Recommendations[0]
	assert.Equal(t, "Naruto Shippuden", rec.RecommendedTitle)
	assert.Equal(t, []string{"Action", "Drama", "Fantasy"}, rec.Genre)
	assert.InDelta(t, 4.25, rec.Rating, 1e-9)
	assert.GreaterOrEqual(t, rec.MatchScore, 0.0)
	assert.LessOrEqual(t, rec.MatchScore, 1.0)
	assert.Equal(t, "Naruto", resp.Query)

	// The prompt embeds both the retrieved snippet and the literal query.
	require.Len(t, llm.prompts, 1)
	require.Len(t, llm.prompts[0], 2)
	assert.Contains(t, llm.prompts[0][1].Content, "Naruto Shippuden")
	assert.Contains(t, llm.prompts[0][1].Content, "User question or preference: Naruto")
}

func TestRecommendDeterministicForIdenticalQueries(t *testing.T) {
	chain := NewChain(
		&mockRetriever{results: narutoContext()},
		&mockLLM{outputs: []string{narutoOutput}},
		10,
	)

	first := chain.Recommend(context.Background(), "Naruto")
	second := chain.Recommend(context.Background(), "Naruto")
	assert.Equal(t, first, second)
}

func TestRecommendEmptyContext(t *testing.T) {
	retriever := &mockRetriever{results: nil}
	llm := &mockLLM{outputs: []string{"[]"}}
	chain := NewChain(retriever, llm, 10)

	resp := chain.Recommend(context.Background(), "obscure query")

	// Empty context is legal: the chain still asks the model.
	assert.Equal(t, 1, llm.calls)
	assert.Nil(t, resp.Error)
	assert.Empty(t, resp.Recommendations)
}

func TestRecommendRetriesRetrievalOnce(t *testing.T) {
	retriever := &mockRetriever{
		results: narutoContext(),
		errs:    []error{errors.New("transient store hiccup"), nil},
	}
	llm := &mockLLM{outputs: []string{narutoOutput}}
	chain := NewChain(retriever, llm, 10)

	resp := chain.Recommend(context.Background(), "Naruto")

	assert.Equal(t, 2, retriever.calls)
	require.Nil(t, resp.Error)
	assert.Len(t, resp.Recommendations, 1)
}

func TestRecommendSurfacesRetrievalFailure(t *testing.T) {
	retriever := &mockRetriever{
		errs: []error{errors.New("index gone"), errors.New("index gone")},
	}
	llm := &mockLLM{outputs: []string{narutoOutput}}
	chain := NewChain(retriever, llm, 10)

	resp := chain.Recommend(context.Background(), "Naruto")

	assert.Equal(t, 2, retriever.calls)
	assert.Zero(t, llm.calls)
	require.NotNil(t, resp.Error)
	assert.Contains(t, *resp.Error, "retrieval failed")
	assert.Empty(t, resp.Recommendations)
}

func TestRecommendRetriesRateLimitedGeneration(t *testing.T) {
	restore := ai.SetRetryBackoffForTest(time.Millisecond)
	defer restore()

	retriever := &mockRetriever{results: narutoContext()}
	llm := &mockLLM{
		outputs: []string{narutoOutput},
		errs:    []error{&openai.APIError{HTTPStatusCode: 429}, nil},
	}
	chain := NewChain(retriever, llm, 10)

	resp := chain.Recommend(context.Background(), "Naruto")

	assert.Equal(t, 2, llm.calls)
	require.Nil(t, resp.Error)
	assert.Len(t, resp.Recommendations, 1)
}

func TestRecommendSurfacesGenerationFailure(t *testing.T) {
	retriever := &mockRetriever{results: narutoContext()}
	llm := &mockLLM{
		outputs: []string{narutoOutput},
		errs:    []error{&openai.APIError{HTTPStatusCode: 401}},
	}
	chain := NewChain(retriever, llm, 10)

	resp := chain.Recommend(context.Background(), "Naruto")

	// Permanent errors are not retried.
	assert.Equal(t, 1, llm.calls)
	require.NotNil(t, resp.Error)
	assert.Contains(t, *resp.Error, "generation failed")
	assert.Empty(t, resp.Recommendations)
}

func TestRecommendUnparsableOutput(t *testing.T) {
	retriever := &mockRetriever{results: narutoContext()}
	llm := &mockLLM{outputs: []string{"Sorry, I can only answer in prose."}}
	chain := NewChain(retriever, llm, 10)

	resp := chain.Recommend(context.Background(), "Naruto")

	// Parse failures are never retried.
	assert.Equal(t, 1, llm.calls)
	require.NotNil(t, resp.Error)
	assert.Contains(t, *resp.Error, "failed to parse model output")
	assert.Empty(t, resp.Recommendations)
}
