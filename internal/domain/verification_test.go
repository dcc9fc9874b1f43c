package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualityRatingScore(t *testing.T) {
	tests := []struct {
		rating QualityRating
		score  float64
	}{
		{QualityVeryAppropriate, 1.0},
		{QualityAppropriate, 0.7},
		{QualityInappropriate, 0.3},
		{QualityRating("garbage"), 0.3},
		{QualityRating(""), 0.3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.score, tt.rating.Score(), "rating %q", tt.rating)
	}
}

func TestFuseScores(t *testing.T) {
	t.Run("grounded appropriate", func(t *testing.T) {
		total := FuseScores(
			HallucinationCheck{Result: HallucinationGrounded},
			QualityCheck{Rating: QualityAppropriate},
			SemanticConsistency{AverageScore: 0.9},
		)
		// 0.4*1.0 + 0.3*0.7 + 0.3*0.9
		assert.InDelta(t, 0.88, total, 1e-9)
		assert.True(t, total >= ValidityThreshold)
	})

	t.Run("ungrounded inappropriate", func(t *testing.T) {
		total := FuseScores(
			HallucinationCheck{Result: HallucinationUngrounded},
			QualityCheck{Rating: QualityInappropriate},
			SemanticConsistency{AverageScore: 0.2},
		)
		// 0.4*0.0 + 0.3*0.3 + 0.3*0.2
		assert.InDelta(t, 0.15, total, 1e-9)
		assert.False(t, total >= ValidityThreshold)
	})

	t.Run("boundary case at threshold", func(t *testing.T) {
		total := FuseScores(
			HallucinationCheck{Result: HallucinationGrounded},
			QualityCheck{Rating: QualityInappropriate},
			SemanticConsistency{AverageScore: 0.2},
		)
		// 0.4 + 0.09 + 0.06 = 0.55 < 0.6
		assert.InDelta(t, 0.55, total, 1e-9)
		assert.False(t, total >= ValidityThreshold)
	})
}

func TestCorrectnessScore(t *testing.T) {
	assert.Equal(t, 1.0, CorrectnessTrue.Score())
	assert.Equal(t, 0.5, CorrectnessPartial.Score())
	assert.Equal(t, 0.0, CorrectnessFalse.Score())
}
