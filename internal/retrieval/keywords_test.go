package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	t.Parallel()

	t.Run("filters stop words", func(t *testing.T) {
		t.Parallel()
		keywords := ExtractKeywords("What is the process to apply?")
		assert.NotContains(t, keywords, "what")
		assert.NotContains(t, keywords, "is")
		assert.NotContains(t, keywords, "the")
		assert.Contains(t, keywords, "process")
		assert.Contains(t, keywords, "apply")
	})

	t.Run("expands acronyms", func(t *testing.T) {
		t.Parallel()
		keywords := ExtractKeywords("What is EIDBI?")
		assert.Contains(t, keywords, "eidbi")
		assert.Contains(t, keywords, "early intensive developmental and behavioral intervention")
	})

	t.Run("picks up domain phrases", func(t *testing.T) {
		t.Parallel()
		keywords := ExtractKeywords("Is autism spectrum disorder covered?")
		assert.Contains(t, keywords, "autism spectrum disorder")
	})

	t.Run("strips punctuation and dedupes", func(t *testing.T) {
		t.Parallel()
		keywords := ExtractKeywords("Providers, providers, PROVIDERS!")
		count := 0
		for _, kw := range keywords {
			if kw == "providers" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("empty query yields nothing", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, ExtractKeywords("what is the"))
	})
}
