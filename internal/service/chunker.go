package service

import (
	"context"
	"sort"
	"strings"

	"quizcraft/internal/domain"
	"quizcraft/internal/util"
)

// Chunker splits documents into overlapping word windows and ranks them by
// embedding similarity to a query. Chunks are request-scoped and never
// persisted.
type Chunker struct {
	embeddingService domain.EmbeddingService
}

// NewChunker creates a new Chunker backed by the given embedding service.
func NewChunker(embeddingService domain.EmbeddingService) *Chunker {
	return &Chunker{embeddingService: embeddingService}
}

// Chunk splits document into windows of chunkSizeWords words advancing by
// half a window (50% overlap). The final partial window is included even
// if shorter. An empty document yields no chunks.
func (c *Chunker) Chunk(document string, chunkSizeWords int) []string {
	words := strings.Fields(document)
	if len(words) == 0 {
		return nil
	}
	if chunkSizeWords < 1 {
		chunkSizeWords = 1
	}

	step := chunkSizeWords / 2
	if step < 1 {
		step = 1
	}

	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + chunkSizeWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// Rank orders chunks by descending similarity to query and returns the top
// k with their relevance scores. Ties keep original chunk order (stable
// sort). k is clamped to the number of available chunks.
func (c *Chunker) Rank(ctx context.Context, query string, chunks []string, topK int) ([]domain.ContextChunk, error) {
	if len(chunks) == 0 || topK <= 0 {
		return nil, nil
	}

	texts := make([]string, 0, len(chunks)+1)
	texts = append(texts, query)
	texts = append(texts, chunks...)

	vectors, err := c.embeddingService.GenerateBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	queryVector := vectors[0]

	ranked := make([]domain.ContextChunk, len(chunks))
	for i, chunk := range chunks {
		similarity, simErr := util.CosineSimilarity(queryVector, vectors[i+1])
		if simErr != nil {
			return nil, domain.NewEmbeddingError(simErr)
		}
		ranked[i] = domain.ContextChunk{Text: chunk, Relevance: similarity}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Relevance > ranked[b].Relevance
	})

	if topK > len(ranked) {
		topK = len(ranked)
	}
	return ranked[:topK], nil
}

// ExtractRelevantContext chunks document and returns the topK chunks most
// relevant to query, in relevance order.
func (c *Chunker) ExtractRelevantContext(ctx context.Context, query, document string, chunkSizeWords, topK int) ([]domain.ContextChunk, error) {
	chunks := c.Chunk(document, chunkSizeWords)
	if len(chunks) == 0 {
		return nil, nil
	}
	return c.Rank(ctx, query, chunks, topK)
}
