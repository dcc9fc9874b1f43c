package domain

import (
	"context"
)

// EmbeddingService defines the interface for generating text embeddings.
// Implementations are constructed once at startup and must be safe for
// concurrent use.
type EmbeddingService interface {
	// Generate creates a fixed-dimension embedding vector for text.
	Generate(ctx context.Context, text string) ([]float32, error)
	// GenerateBatch embeds several texts in one round-trip where the
	// underlying model supports it. Result order matches input order.
	GenerateBatch(ctx context.Context, texts []string) ([][]float32, error)
}
