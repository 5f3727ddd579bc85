package bootstrap

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/agent"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/kb"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/repositories"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/shared/cache"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/shared/utils"
)

// Core holds the repositories and the turn engine shared by saas-api and the bot
type Core struct {
	Avatars        repositories.AvatarRepo
	PromptVersions repositories.PromptVersionRepo
	Products       repositories.ProductRepo
	Promotions     repositories.PromotionRepo
	Knowledge      repositories.KnowledgeRepo
	Memories       repositories.MemoryRepo
	APIKeys        repositories.APIKeyRepo
	ProviderKeys   repositories.ProviderKeyRepo
	RequestLogs    repositories.RequestLogRepo

	Clients *llm.OpenAIFactory
	// Cache is nil when REDIS_URL is not set
	Cache     *cache.EmbeddingCache
	Retriever *kb.Retriever
	Engine    *agent.Engine
}

// NewCore wires repositories, retrieval and the engine on top of db
func NewCore(ctx context.Context, cfg *config.Config, db *gorm.DB) *Core {
	c := &Core{
		Avatars:        repositories.NewAvatarRepo(db),
		PromptVersions: repositories.NewPromptVersionRepo(db),
		Products:       repositories.NewProductRepo(db),
		Promotions:     repositories.NewPromotionRepo(db),
		Knowledge:      repositories.NewKnowledgeRepo(db),
		Memories:       repositories.NewMemoryRepo(db),
		APIKeys:        repositories.NewAPIKeyRepo(db),
		ProviderKeys:   repositories.NewProviderKeyRepo(db),
		RequestLogs:    repositories.NewRequestLogRepo(db),
		Clients:        llm.NewOpenAIFactory(cfg.OpenAIBaseURL, cfg.EmbeddingModel),
	}

	// Embedding cache is optional
	var embeddingCache kb.EmbeddingCache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewEmbeddingCache(ctx, cfg.RedisURL, 24*time.Hour)
		if err != nil {
			utils.LogWarn("⚠️ Redis unavailable, embeddings will not be cached", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			c.Cache = redisCache
			embeddingCache = redisCache
		}
	}

	c.Retriever = kb.NewRetriever(c.Knowledge, c.Clients, embeddingCache)

	fetcher := agent.NewContextFetcher(c.Avatars, c.PromptVersions, c.Memories, c.ProviderKeys, c.Retriever)
	emitter := agent.NewEmitter(c.RequestLogs, c.APIKeys)
	c.Engine = agent.NewEngine(fetcher, c.Products, c.Promotions, emitter, c.Clients, agent.EngineConfig{
		DefaultModel:  cfg.DefaultChatModel,
		MaxToolRounds: cfg.MaxToolRounds,
		ModelTimeout:  cfg.ModelTimeout,
	})

	log.Info().
		Str("model", cfg.DefaultChatModel).
		Int("max_tool_rounds", cfg.MaxToolRounds).
		Bool("embedding_cache", c.Cache != nil).
		Msg("🤖 Chat engine ready")
	return c
}

// Close releases the optional cache connection
func (c *Core) Close() {
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️ Failed to close redis")
		}
	}
}
