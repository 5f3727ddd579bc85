package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DatabaseURL      string
	WhatsAppStoreURL string
	RedisURL         string
	Port             string
	Env              string

	// Dashboard session tokens (HS256)
	SessionJWTSecret string

	// LLM
	OpenAIBaseURL    string
	DefaultChatModel string
	EmbeddingModel   string
	MaxToolRounds    int
	ModelTimeout     time.Duration

	// Housekeeping
	TrashRetentionDays int
	IngestSchedule     string
	PurgeSchedule      string

	// WhatsApp bridge
	BotAvatarID string
	BotUserID   string
	// conversations idle this long are dropped from memory
	BotIdleTimeout   time.Duration
	BotSweepSchedule string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		WhatsAppStoreURL:   os.Getenv("WHATSAPP_STORE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		Port:               os.Getenv("PORT"),
		Env:                os.Getenv("ENV"),
		SessionJWTSecret:   os.Getenv("SESSION_JWT_SECRET"),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		DefaultChatModel:   os.Getenv("DEFAULT_CHAT_MODEL"),
		EmbeddingModel:     os.Getenv("EMBEDDING_MODEL"),
		MaxToolRounds:      getEnvInt("AGENT_MAX_TOOL_ROUNDS", 5),
		ModelTimeout:       time.Duration(getEnvInt("AGENT_MODEL_TIMEOUT_SECONDS", 60)) * time.Second,
		TrashRetentionDays: getEnvInt("TRASH_RETENTION_DAYS", 30),
		IngestSchedule:     os.Getenv("KNOWLEDGE_INGEST_SCHEDULE"),
		PurgeSchedule:      os.Getenv("TRASH_PURGE_SCHEDULE"),
		BotAvatarID:        os.Getenv("BOT_AVATAR_ID"),
		BotUserID:          os.Getenv("BOT_USER_ID"),
		BotIdleTimeout:     time.Duration(getEnvInt("BOT_IDLE_HOURS", 6)) * time.Hour,
		BotSweepSchedule:   os.Getenv("BOT_SWEEP_SCHEDULE"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.DefaultChatModel == "" {
		cfg.DefaultChatModel = "gpt-4o-mini"
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.IngestSchedule == "" {
		cfg.IngestSchedule = "0 * * * * *" // every minute
	}
	if cfg.PurgeSchedule == "" {
		cfg.PurgeSchedule = "0 0 3 * * *" // daily at 03:00
	}
	if cfg.BotSweepSchedule == "" {
		cfg.BotSweepSchedule = "0 */10 * * * *" // every 10 minutes
	}
	if cfg.WhatsAppStoreURL == "" {
		// Default to main database if not specified
		cfg.WhatsAppStoreURL = cfg.DatabaseURL
	}

	return cfg
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("⚠️ invalid integer env, using default")
		return fallback
	}
	return v
}
