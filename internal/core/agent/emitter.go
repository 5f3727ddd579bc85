package agent

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/shared/metrics"
)

const (
	OutcomeReplied           = "replied"
	OutcomePriceShortCircuit = "price_short_circuit"
	OutcomeRoundsExhausted   = "tool_rounds_exhausted"
	OutcomeError             = "error"
)

type RequestLogStore interface {
	Create(ctx context.Context, entry *models.APIRequestLog) error
}

type UsageCounter interface {
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

// Emitter records the side effects of a finished turn. Its writes never fail the turn.
type Emitter struct {
	logs  RequestLogStore
	usage UsageCounter
}

func NewEmitter(logs RequestLogStore, usage UsageCounter) *Emitter {
	return &Emitter{logs: logs, usage: usage}
}

// Emit writes the audit row, bumps the API key counter and records metrics
func (e *Emitter) Emit(ctx context.Context, caller Caller, avatarID uuid.UUID, req *ChatRequest, meta *Metadata, status int, outcome string, started time.Time) {
	elapsed := time.Since(started)
	metrics.ChatTurnsTotal.WithLabelValues(outcome).Inc()
	metrics.ChatTurnDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())

	// The client may be gone by now; the audit row is still written
	ctx = context.WithoutCancel(ctx)

	requestMeta := map[string]interface{}{
		"message_type": req.MessageType,
		"outcome":      outcome,
	}
	if req.UserIdentifier != "" {
		requestMeta["user_identifier"] = req.UserIdentifier
	}
	if req.PromptVersionID != "" {
		requestMeta["prompt_version_id"] = req.PromptVersionID
	}
	if meta != nil {
		requestMeta["model"] = meta.Model
		requestMeta["tool_calls_executed"] = meta.ToolCallsExecuted
		requestMeta["knowledge_chunks_used"] = meta.KnowledgeChunksUsed
	}
	metaJSON, err := json.Marshal(requestMeta)
	if err != nil {
		metaJSON = []byte("{}")
	}

	if e.logs != nil {
		entry := &models.APIRequestLog{
			APIKeyID:       caller.APIKeyID,
			UserID:         caller.UserID,
			AvatarID:       avatarID,
			Endpoint:       caller.Endpoint,
			Method:         caller.Method,
			StatusCode:     status,
			ResponseTimeMs: elapsed.Milliseconds(),
			RequestMeta:    datatypes.JSON(metaJSON),
		}
		if err := e.logs.Create(ctx, entry); err != nil {
			log.Warn().Err(err).Str("avatar_id", avatarID.String()).Msg("⚠️ Failed to write API request log")
		}
	}

	if e.usage != nil && caller.APIKeyID != nil {
		if err := e.usage.IncrementUsage(ctx, *caller.APIKeyID); err != nil {
			log.Warn().Err(err).Str("api_key_id", caller.APIKeyID.String()).Msg("⚠️ Failed to increment API key usage")
		}
	}
}
