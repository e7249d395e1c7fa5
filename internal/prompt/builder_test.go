package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eidbi-query-system/internal/retrieval"
)

func sampleResults() []retrieval.Result {
	return []retrieval.Result{
		{ChunkID: "a", Text: "EIDBI is a Minnesota benefit.", SourceName: "DHS Manual", SourceURL: "https://example.org/manual"},
		{ChunkID: "b", Text: "Services include intervention."},
	}
}

func TestBuild_Enhanced(t *testing.T) {
	t.Parallel()

	prompt, meta := Build("What is EIDBI?", sampleResults(), QueryDefinition, FormatConcise, true)

	assert.Contains(t, prompt, "Question: What is EIDBI?")
	assert.Contains(t, prompt, "Context 1 (Source: DHS Manual, https://example.org/manual):")
	assert.Contains(t, prompt, "Context 2:")
	assert.Contains(t, prompt, "---")
	assert.Contains(t, prompt, formatInstructions[FormatConcise])
	assert.Contains(t, prompt, typeInstructions[QueryDefinition])

	assert.Equal(t, "definition_concise", meta.TemplateID)
	assert.True(t, meta.Enhanced)
	assert.Equal(t, 2, meta.ContextChunks)
}

func TestBuild_Basic(t *testing.T) {
	t.Parallel()

	prompt, meta := Build("What is EIDBI?", sampleResults(), QueryDefinition, FormatConcise, false)

	assert.Equal(t, "basic", meta.TemplateID)
	assert.False(t, meta.Enhanced)
	assert.Contains(t, prompt, "I cannot answer the question based on the provided information.")
	// The enhanced instruction block never leaks into the basic template.
	assert.NotContains(t, prompt, "Instructions:")
}

func TestBuild_ProviderCountInstructions(t *testing.T) {
	t.Parallel()

	prompt, _ := Build("How many providers are there?", sampleResults(), QueryProviderCount, FormatConcise, true)

	assert.Contains(t, prompt, "The exact number of EIDBI providers is not specified in the available information.")
	assert.Contains(t, prompt, "Never invent or estimate a number")
	assert.Contains(t, prompt, "https://www.dhs.state.mn.us/")
}

func TestBuild_EmptyContext(t *testing.T) {
	t.Parallel()

	prompt, meta := Build("question", nil, QueryGeneral, FormatConcise, true)
	assert.Contains(t, prompt, "No relevant context available.")
	assert.Zero(t, meta.ContextChunks)
}

func TestFallbackAnswer(t *testing.T) {
	t.Parallel()

	t.Run("every query type has one", func(t *testing.T) {
		t.Parallel()
		for _, queryType := range AllQueryTypes {
			answer := FallbackAnswer(queryType)
			require.NotEmpty(t, answer, "query type %s has no fallback", queryType)
		}
	})

	t.Run("provider count states the disclaimer", func(t *testing.T) {
		t.Parallel()
		answer := FallbackAnswer(QueryProviderCount)
		assert.Contains(t, answer, "The exact number of EIDBI providers is not specified in the available information.")
		assert.Contains(t, answer, "https://www.dhs.state.mn.us/")
		// Never a bare number pretending to be a count.
		assert.False(t, strings.ContainsAny(answer, "0123456789"))
	})

	t.Run("unknown type falls back to general", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, FallbackAnswer(QueryGeneral), FallbackAnswer(QueryType("unknown")))
	})
}

func TestInsufficientInfoAnswer(t *testing.T) {
	t.Parallel()

	assert.Contains(t, InsufficientInfoAnswer, "could not find relevant information")
	assert.Contains(t, InsufficientInfoAnswer, "https://www.dhs.state.mn.us/")
}
