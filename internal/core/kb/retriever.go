package kb

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
)

type ChunkSearcher interface {
	SearchChunks(ctx context.Context, avatarID uuid.UUID, embedding []float32, threshold float64, limit int) ([]models.KnowledgePassage, error)
}

// EmbeddingCache memoizes query embeddings; shared/cache implements it over Redis
type EmbeddingCache interface {
	Get(ctx context.Context, model, text string) ([]float32, bool, error)
	Set(ctx context.Context, model, text string, embedding []float32) error
}

// Retriever embeds a query with the tenant's key and runs similarity search
type Retriever struct {
	chunks  ChunkSearcher
	clients llm.ClientFactory
	cache   EmbeddingCache
}

// NewRetriever creates a retriever. cache may be nil.
func NewRetriever(chunks ChunkSearcher, clients llm.ClientFactory, cache EmbeddingCache) *Retriever {
	return &Retriever{chunks: chunks, clients: clients, cache: cache}
}

// Search mengambil passage yang paling relevan untuk query
func (r *Retriever) Search(ctx context.Context, apiKey string, avatarID uuid.UUID, query string, threshold float64, limit int) ([]models.KnowledgePassage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	embedding, err := r.embed(ctx, r.clients.Embedder(apiKey), query)
	if err != nil {
		return nil, err
	}

	passages, err := r.chunks.SearchChunks(ctx, avatarID, embedding, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search knowledge chunks: %w", err)
	}
	return passages, nil
}

func (r *Retriever) embed(ctx context.Context, embedder llm.Embedder, text string) ([]float32, error) {
	model := embedder.ModelName()

	if r.cache != nil {
		cached, ok, err := r.cache.Get(ctx, model, text)
		if err != nil {
			log.Warn().Err(err).Msg("⚠️ Embedding cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	embedding, err := embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, model, text, embedding); err != nil {
			log.Warn().Err(err).Msg("⚠️ Embedding cache write failed")
		}
	}
	return embedding, nil
}
