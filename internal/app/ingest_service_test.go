package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eidbi-query-system/internal/corpus"
	"eidbi-query-system/internal/model"
)

func TestPrepareChunks(t *testing.T) {
	t.Parallel()

	t.Run("rejects missing id or text", func(t *testing.T) {
		t.Parallel()
		s := NewIngestService(nil, nil, corpus.NewStore(), &stubEmbedder{vec: []float32{1, 0}})

		_, err := s.prepareChunks(context.Background(), []model.Chunk{{ID: "", Text: "text"}})
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = s.prepareChunks(context.Background(), []model.Chunk{{ID: "a", Text: "   "}})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("truncates oversized text and hashes content", func(t *testing.T) {
		t.Parallel()
		s := NewIngestService(nil, nil, corpus.NewStore(), &stubEmbedder{vec: []float32{1, 0}})

		long := strings.Repeat("x", model.MaxChunkTextLen+100)
		prepared, err := s.prepareChunks(context.Background(), []model.Chunk{{ID: "a", Text: long}})
		require.NoError(t, err)
		require.Len(t, prepared, 1)

		assert.Len(t, prepared[0].Text, model.MaxChunkTextLen)
		assert.Equal(t, model.HashContent(prepared[0].Text), prepared[0].ContentHash)
		assert.False(t, prepared[0].ExtractedAt.IsZero())
	})

	t.Run("embeds chunks that arrive without an embedding", func(t *testing.T) {
		t.Parallel()
		s := NewIngestService(nil, nil, corpus.NewStore(), &stubEmbedder{vec: []float32{1, 0}})

		prepared, err := s.prepareChunks(context.Background(), []model.Chunk{{ID: "a", Text: "some text"}})
		require.NoError(t, err)
		assert.True(t, prepared[0].HasEmbedding())
	})

	t.Run("embedding failure keeps the chunk keyword-only", func(t *testing.T) {
		t.Parallel()
		s := NewIngestService(nil, nil, corpus.NewStore(), &stubEmbedder{err: errors.New("backend down")})

		prepared, err := s.prepareChunks(context.Background(), []model.Chunk{{ID: "a", Text: "some text"}})
		require.NoError(t, err)
		require.Len(t, prepared, 1)
		assert.False(t, prepared[0].HasEmbedding())
	})

	t.Run("preexisting embedding is kept", func(t *testing.T) {
		t.Parallel()
		embedder := &stubEmbedder{vec: []float32{9, 9}}
		s := NewIngestService(nil, nil, corpus.NewStore(), embedder)

		c := model.Chunk{ID: "a", Text: "some text"}
		c.SetEmbedding([]float32{1, 2})
		prepared, err := s.prepareChunks(context.Background(), []model.Chunk{c})
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 2}, prepared[0].EmbeddingVector())
	})
}

func TestPrepareFacts(t *testing.T) {
	t.Parallel()

	t.Run("rejects incomplete facts", func(t *testing.T) {
		t.Parallel()
		_, err := prepareFacts([]model.StructuredFact{{Category: "providers", FactKey: "", Value: "435"}})
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = prepareFacts([]model.StructuredFact{{Category: "providers", FactKey: "count", Value: "  "}})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("defaults confidence and last updated", func(t *testing.T) {
		t.Parallel()
		prepared, err := prepareFacts([]model.StructuredFact{{Category: "providers", FactKey: "count", Value: "435"}})
		require.NoError(t, err)
		require.Len(t, prepared, 1)
		assert.Equal(t, "high", prepared[0].Confidence)
		assert.False(t, prepared[0].LastUpdated.IsZero())
	})
}
