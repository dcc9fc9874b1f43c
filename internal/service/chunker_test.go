package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"quizcraft/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func wordsDoc(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestChunkerChunk(t *testing.T) {
	chunker := NewChunker(nil)

	t.Run("overlapping windows with truncated tail", func(t *testing.T) {
		chunks := chunker.Chunk(wordsDoc(1000), 500)
		require.Len(t, chunks, 4)

		// Windows start at word offsets 0, 250, 500 and 750.
		assert.True(t, strings.HasPrefix(chunks[0], "w0 "))
		assert.True(t, strings.HasPrefix(chunks[1], "w250 "))
		assert.True(t, strings.HasPrefix(chunks[2], "w500 "))
		assert.True(t, strings.HasPrefix(chunks[3], "w750 "))

		assert.Len(t, strings.Fields(chunks[0]), 500)
		assert.Len(t, strings.Fields(chunks[3]), 250)
	})

	t.Run("document shorter than one window", func(t *testing.T) {
		chunks := chunker.Chunk("just a few words", 500)
		require.Len(t, chunks, 1)
		assert.Equal(t, "just a few words", chunks[0])
	})

	t.Run("empty document", func(t *testing.T) {
		assert.Empty(t, chunker.Chunk("", 500))
		assert.Empty(t, chunker.Chunk("   \n\t ", 500))
	})

	t.Run("chunk size below one", func(t *testing.T) {
		chunks := chunker.Chunk("one two three", 0)
		assert.Equal(t, []string{"one", "two", "three"}, chunks)
	})
}

func TestChunkerRank(t *testing.T) {
	t.Run("orders by descending similarity", func(t *testing.T) {
		mockEmbedding := new(MockEmbeddingService)
		chunker := NewChunker(mockEmbedding)

		chunks := []string{"off topic", "exact match", "related"}
		mockEmbedding.On("GenerateBatch", mock.Anything, append([]string{"query"}, chunks...)).
			Return([][]float32{
				{1, 0}, // query
				{0, 1}, // off topic
				{1, 0}, // exact match
				{1, 1}, // related
			}, nil)

		ranked, err := chunker.Rank(context.Background(), "query", chunks, 2)
		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.Equal(t, "exact match", ranked[0].Text)
		assert.InDelta(t, 1.0, ranked[0].Relevance, 1e-9)
		assert.Equal(t, "related", ranked[1].Text)
		mockEmbedding.AssertExpectations(t)
	})

	t.Run("ties keep original chunk order", func(t *testing.T) {
		mockEmbedding := new(MockEmbeddingService)
		chunker := NewChunker(mockEmbedding)

		chunks := []string{"first", "second"}
		mockEmbedding.On("GenerateBatch", mock.Anything, mock.Anything).
			Return([][]float32{{1, 0}, {1, 0}, {1, 0}}, nil)

		ranked, err := chunker.Rank(context.Background(), "query", chunks, 2)
		require.NoError(t, err)
		assert.Equal(t, "first", ranked[0].Text)
		assert.Equal(t, "second", ranked[1].Text)
	})

	t.Run("topK clamped to chunk count", func(t *testing.T) {
		mockEmbedding := new(MockEmbeddingService)
		chunker := NewChunker(mockEmbedding)

		mockEmbedding.On("GenerateBatch", mock.Anything, mock.Anything).
			Return([][]float32{{1, 0}, {1, 0}}, nil)

		ranked, err := chunker.Rank(context.Background(), "query", []string{"only"}, 10)
		require.NoError(t, err)
		assert.Len(t, ranked, 1)
	})

	t.Run("no chunks or non-positive topK", func(t *testing.T) {
		chunker := NewChunker(new(MockEmbeddingService))

		ranked, err := chunker.Rank(context.Background(), "query", nil, 3)
		assert.NoError(t, err)
		assert.Empty(t, ranked)

		ranked, err = chunker.Rank(context.Background(), "query", []string{"chunk"}, 0)
		assert.NoError(t, err)
		assert.Empty(t, ranked)
	})

	t.Run("embedding failure propagates", func(t *testing.T) {
		mockEmbedding := new(MockEmbeddingService)
		chunker := NewChunker(mockEmbedding)

		mockEmbedding.On("GenerateBatch", mock.Anything, mock.Anything).
			Return(nil, domain.NewEmbeddingError(assert.AnError))

		_, err := chunker.Rank(context.Background(), "query", []string{"chunk"}, 1)
		assert.Error(t, err)
	})
}

func TestChunkerExtractRelevantContext(t *testing.T) {
	mockEmbedding := new(MockEmbeddingService)
	chunker := NewChunker(mockEmbedding)

	mockEmbedding.On("GenerateBatch", mock.Anything, mock.Anything).
		Return([][]float32{{1, 0}, {0, 1}, {1, 0}, {0, 1}}, nil)

	// 6 words with a window of 4 yields chunks at offsets 0, 2 and 4.
	chunks, err := chunker.ExtractRelevantContext(context.Background(), "query", "a b c d e f", 4, 1)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "c d e f", chunks[0].Text)
}
