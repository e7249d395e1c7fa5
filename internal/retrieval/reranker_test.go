package retrieval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReranker_ExactMatchBoost(t *testing.T) {
	t.Parallel()

	candidates := []Result{
		{ChunkID: "generic", Text: "General program information.", Score: 1.0},
		{ChunkID: "exact", Text: "Details on eidbi eligibility criteria here.", Score: 0.9},
	}

	r := NewReranker(8)
	results := r.Rerank("eidbi eligibility", ExtractKeywords("eidbi eligibility"), candidates)

	require.Len(t, results, 2)
	assert.Equal(t, "exact", results[0].ChunkID)
}

func TestReranker_DefinitionBoost(t *testing.T) {
	t.Parallel()

	candidates := []Result{
		{ChunkID: "mention", Text: "EIDBI appears in various contexts.", Score: 1.0},
		{ChunkID: "defines", Text: "The EIDBI benefit is a program that provides early intervention.", Score: 1.0},
	}

	r := NewReranker(8)
	results := r.Rerank("what is EIDBI", ExtractKeywords("what is EIDBI"), candidates)

	require.Len(t, results, 2)
	assert.Equal(t, "defines", results[0].ChunkID)
}

func TestReranker_FactsStayPinned(t *testing.T) {
	t.Parallel()

	candidates := []Result{
		{ChunkID: "fact", Text: "Key Fact: provider_count", Score: 1e6, IsFact: true},
		{ChunkID: "chunk", Text: "how many eidbi providers overview what is about", Score: 1.0},
	}

	r := NewReranker(8)
	results := r.Rerank("how many eidbi providers", ExtractKeywords("how many eidbi providers"), candidates)

	require.Len(t, results, 2)
	assert.Equal(t, "fact", results[0].ChunkID)
	// Fact scores are never touched by boosts.
	assert.Equal(t, 1e6, results[0].Score)
}

func TestReranker_TruncatesToTopK(t *testing.T) {
	t.Parallel()

	candidates := make([]Result, 10)
	for i := range candidates {
		candidates[i] = Result{ChunkID: string(rune('a' + i)), Text: "text", Score: float64(10 - i)}
	}

	r := NewReranker(3)
	results := r.Rerank("query", nil, candidates)
	assert.Len(t, results, 3)
}

func TestReranker_Deterministic(t *testing.T) {
	t.Parallel()

	candidates := []Result{
		{ChunkID: "a", Text: "eidbi program overview", Score: 1.0, LastUpdated: time.Unix(1000, 0)},
		{ChunkID: "b", Text: "eligibility criteria for eidbi", Score: 1.1, LastUpdated: time.Unix(2000, 0)},
		{ChunkID: "c", Text: "unrelated", Score: 0.5},
	}
	keywords := ExtractKeywords("eidbi eligibility")

	r := NewReranker(8)
	first := r.Rerank("eidbi eligibility", keywords, candidates)
	second := r.Rerank("eidbi eligibility", keywords, candidates)
	assert.Equal(t, first, second)
}

func TestReranker_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	candidates := []Result{
		{ChunkID: "a", Text: "eidbi eligibility overview", Score: 1.0},
	}

	r := NewReranker(8)
	_ = r.Rerank("eidbi eligibility", ExtractKeywords("eidbi eligibility"), candidates)
	assert.Equal(t, 1.0, candidates[0].Score)
}
