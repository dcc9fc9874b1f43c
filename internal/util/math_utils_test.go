package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3})
		assert.NoError(t, err)
		assert.InDelta(t, 1.0, sim, 1e-9)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
		assert.NoError(t, err)
		assert.InDelta(t, 0.0, sim, 1e-9)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{1, 1}, []float32{-1, -1})
		assert.NoError(t, err)
		assert.InDelta(t, -1.0, sim, 1e-9)
	})

	t.Run("empty vectors", func(t *testing.T) {
		_, err := CosineSimilarity(nil, []float32{1})
		assert.Error(t, err)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "dimensions do not match")
	})

	t.Run("zero magnitude yields zero", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{0, 0}, []float32{1, 2})
		assert.NoError(t, err)
		assert.Equal(t, 0.0, sim)
	})
}

func TestNewULID(t *testing.T) {
	a := NewULID()
	b := NewULID()
	assert.Len(t, a, 26)
	assert.Len(t, b, 26)
	assert.NotEqual(t, a, b)
}
