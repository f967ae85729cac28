package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	embedCalls int
	batchCalls int
	batchSizes []int
	err        error
	closed     bool
}

func (c *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	c.embedCalls++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{float32(len(text))}, nil
}

func (c *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	c.batchCalls++
	c.batchSizes = append(c.batchSizes, len(texts))
	if c.err != nil {
		return nil, c.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text))}
	}
	return out, nil
}

func (c *countingEmbedder) Dimensions() int              { return 1 }
func (c *countingEmbedder) ModelName() string            { return "counting" }
func (c *countingEmbedder) Ping(_ context.Context) error { return c.err }

func (c *countingEmbedder) Close() error {
	c.closed = true
	return nil
}

func TestEmbed_CachesResult(t *testing.T) {
	inner := &countingEmbedder{}
	s := New(inner, 0)
	ctx := context.Background()

	first, err := s.Embed(ctx, "gauss")
	require.NoError(t, err)
	second, err := s.Embed(ctx, "gauss")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.embedCalls)
	assert.Equal(t, 1, s.Len())
}

func TestEmbed_ErrorNotCached(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("down")}
	s := New(inner, 0)

	_, err := s.Embed(context.Background(), "x")
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestEmbedBatch_OnlyMissing(t *testing.T) {
	inner := &countingEmbedder{}
	s := New(inner, 0)
	ctx := context.Background()

	_, err := s.Embed(ctx, "bb")
	require.NoError(t, err)

	out, err := s.EmbedBatch(ctx, []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1}, {2}, {3}}, out)
	assert.Equal(t, []int{2}, inner.batchSizes)

	_, err = s.EmbedBatch(ctx, []string{"a", "ccc"})
	require.NoError(t, err)
	assert.Equal(t, 1, inner.batchCalls)
}

func TestEmbedBatch_Error(t *testing.T) {
	s := New(&countingEmbedder{err: errors.New("down")}, 0)
	_, err := s.EmbedBatch(context.Background(), []string{"a"})
	assert.Error(t, err)
}

func TestDelegates(t *testing.T) {
	inner := &countingEmbedder{}
	s := New(inner, 0)

	assert.Equal(t, 1, s.Dimensions())
	assert.Equal(t, "counting", s.ModelName())
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
	assert.True(t, inner.closed)
}
