package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls int
	err   error
}

func (e *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func TestCachingEmbedder_CallsInnerOnce(t *testing.T) {
	t.Parallel()

	inner := &countingEmbedder{}
	c, err := NewCachingEmbedder(inner, 10)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := c.Embed(ctx, "eidbi services")
	require.NoError(t, err)
	second, err := c.Embed(ctx, "eidbi services")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestCachingEmbedder_KeysAreExactText(t *testing.T) {
	t.Parallel()

	inner := &countingEmbedder{}
	c, err := NewCachingEmbedder(inner, 10)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = c.Embed(ctx, "EIDBI")
	require.NoError(t, err)
	_, err = c.Embed(ctx, "eidbi")
	require.NoError(t, err)

	// No normalization: two distinct inner calls.
	assert.Equal(t, 2, inner.calls)
}

func TestCachingEmbedder_FailuresNotCached(t *testing.T) {
	t.Parallel()

	inner := &countingEmbedder{err: errors.New("backend down")}
	c, err := NewCachingEmbedder(inner, 10)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = c.Embed(ctx, "query")
	require.Error(t, err)

	inner.err = nil
	vec, err := c.Embed(ctx, "query")
	require.NoError(t, err)
	assert.NotEmpty(t, vec)
	assert.Equal(t, 2, inner.calls)
}

func TestCachingEmbedder_Clear(t *testing.T) {
	t.Parallel()

	inner := &countingEmbedder{}
	c, err := NewCachingEmbedder(inner, 10)
	require.NoError(t, err)

	_, err = c.Embed(context.Background(), "query")
	require.NoError(t, err)
	require.Equal(t, 1, c.Stats().Size)

	c.Clear()
	assert.Equal(t, 0, c.Stats().Size)
}
