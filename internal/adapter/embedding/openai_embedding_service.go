package embedding

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"time"

	"quizcraft/internal/cache"
	"quizcraft/internal/config"
	"quizcraft/internal/domain"

	"github.com/tmc/langchaingo/embeddings"
	openaiLLM "github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/sync/singleflight"
)

const defaultEmbeddingTTL = 168 * time.Hour // 7 days

// OpenAIEmbeddingService implements the domain.EmbeddingService interface
// using OpenAI. Vectors are cached in Redis (gob-encoded) keyed by a hash
// of the input text; concurrent misses for the same text collapse into a
// single upstream call via singleflight.
type OpenAIEmbeddingService struct {
	embedder embeddings.Embedder
	cache    domain.Cache
	config   *config.Config
	sfGroup  singleflight.Group
}

// NewOpenAIEmbeddingService creates a new OpenAIEmbeddingService.
func NewOpenAIEmbeddingService(apiKey, modelName string, cacheClient domain.Cache, cfg *config.Config) (*OpenAIEmbeddingService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if modelName == "" {
		modelName = "text-embedding-ada-002"
	}

	llm, err := openaiLLM.New(
		openaiLLM.WithToken(apiKey),
		openaiLLM.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI LLM client for embedder: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create generic embedder from OpenAI LLM: %w", err)
	}

	return &OpenAIEmbeddingService{
		embedder: embedder,
		cache:    cacheClient,
		config:   cfg,
	}, nil
}

// Generate creates an embedding for the given text using the OpenAI embedder.
func (s *OpenAIEmbeddingService) Generate(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, domain.NewEmbeddingError(fmt.Errorf("input text cannot be empty for embedding"))
	}

	cacheKey := cache.GenerateCacheKey("embedding", "openai", hashString(text))

	if s.cache != nil {
		if cached, ok := s.readCache(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	res, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		vector, fetchErr := s.embedder.EmbedQuery(ctx, text)
		if fetchErr != nil {
			return nil, domain.NewEmbeddingError(fmt.Errorf("failed to generate embedding using OpenAI: %w", fetchErr))
		}
		if vector == nil {
			return nil, domain.NewEmbeddingError(fmt.Errorf("received nil embedding from OpenAI without error"))
		}

		if s.cache != nil {
			s.writeCache(ctx, cacheKey, vector)
		}
		return vector, nil
	})
	if err != nil {
		return nil, err
	}

	if vector, ok := res.([]float32); ok {
		return vector, nil
	}
	return nil, domain.NewEmbeddingError(fmt.Errorf("unexpected type from singleflight.Do for openai embedding: %T", res))
}

// GenerateBatch embeds several texts in one round-trip. Cached vectors are
// served from Redis; only the misses are sent upstream.
func (s *OpenAIEmbeddingService) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, domain.NewEmbeddingError(fmt.Errorf("input texts cannot be empty for embedding"))
	}

	vectors := make([][]float32, len(texts))
	var missTexts []string
	var missIdx []int

	for i, text := range texts {
		if text == "" {
			return nil, domain.NewEmbeddingError(fmt.Errorf("input text cannot be empty for embedding"))
		}
		if s.cache != nil {
			cacheKey := cache.GenerateCacheKey("embedding", "openai", hashString(text))
			if cached, ok := s.readCache(ctx, cacheKey); ok {
				vectors[i] = cached
				continue
			}
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) > 0 {
		fetched, err := s.embedder.EmbedDocuments(ctx, missTexts)
		if err != nil {
			return nil, domain.NewEmbeddingError(fmt.Errorf("failed to generate batch embeddings using OpenAI: %w", err))
		}
		if len(fetched) != len(missTexts) {
			return nil, domain.NewEmbeddingError(fmt.Errorf("embedding count mismatch: asked %d, got %d", len(missTexts), len(fetched)))
		}
		for j, vector := range fetched {
			vectors[missIdx[j]] = vector
			if s.cache != nil {
				cacheKey := cache.GenerateCacheKey("embedding", "openai", hashString(missTexts[j]))
				s.writeCache(ctx, cacheKey, vector)
			}
		}
	}

	return vectors, nil
}

func (s *OpenAIEmbeddingService) readCache(ctx context.Context, cacheKey string) ([]float32, bool) {
	cachedData, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		return nil, false
	}
	var vector []float32
	decoder := gob.NewDecoder(bytes.NewReader([]byte(cachedData)))
	if err := decoder.Decode(&vector); err != nil {
		return nil, false
	}
	return vector, true
}

func (s *OpenAIEmbeddingService) writeCache(ctx context.Context, cacheKey string, vector []float32) {
	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(vector); err != nil {
		return // caching is best-effort
	}

	cacheTTL := defaultEmbeddingTTL
	if s.config != nil {
		cacheTTL = s.config.ParseTTLStringOrDefault(s.config.CacheTTLs.Embedding, defaultEmbeddingTTL)
	}

	_ = s.cache.Set(ctx, cacheKey, buffer.String(), cacheTTL)
}

// Ensure OpenAIEmbeddingService implements EmbeddingService
var _ domain.EmbeddingService = (*OpenAIEmbeddingService)(nil)
