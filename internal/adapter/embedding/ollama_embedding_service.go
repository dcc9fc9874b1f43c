package embedding

import (
	"context"
	"fmt"

	"quizcraft/internal/domain"

	"github.com/tmc/langchaingo/embeddings"
	ollamaLLM "github.com/tmc/langchaingo/llms/ollama"
)

// OllamaEmbeddingService implements the domain.EmbeddingService interface using Ollama.
type OllamaEmbeddingService struct {
	embedder embeddings.Embedder
}

// NewOllamaEmbeddingService creates a new OllamaEmbeddingService.
// It requires the Ollama server URL and model name.
func NewOllamaEmbeddingService(serverURL, modelName string) (*OllamaEmbeddingService, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}

	llm, err := ollamaLLM.New(
		ollamaLLM.WithModel(modelName),
		ollamaLLM.WithServerURL(serverURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama LLM client for embedder: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create generic embedder from Ollama LLM: %w", err)
	}

	return &OllamaEmbeddingService{embedder: embedder}, nil
}

// Generate creates an embedding for the given text using the Ollama embedder.
func (s *OllamaEmbeddingService) Generate(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, domain.NewEmbeddingError(fmt.Errorf("input text cannot be empty for embedding"))
	}

	embedding, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, domain.NewEmbeddingError(fmt.Errorf("failed to generate embedding using Ollama: %w", err))
	}

	return embedding, nil
}

// GenerateBatch embeds several texts in a single call via EmbedDocuments.
func (s *OllamaEmbeddingService) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, domain.NewEmbeddingError(fmt.Errorf("input texts cannot be empty for embedding"))
	}
	for _, t := range texts {
		if t == "" {
			return nil, domain.NewEmbeddingError(fmt.Errorf("input text cannot be empty for embedding"))
		}
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, domain.NewEmbeddingError(fmt.Errorf("failed to generate batch embeddings using Ollama: %w", err))
	}

	return vectors, nil
}

// Ensure OllamaEmbeddingService implements EmbeddingService
var _ domain.EmbeddingService = (*OllamaEmbeddingService)(nil)
