package agent

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/shared/metrics"
)

const chatTemperature = 0.7

// EngineConfig tunes the turn pipeline
type EngineConfig struct {
	DefaultModel  string
	MaxToolRounds int
	ModelTimeout  time.Duration
}

// Engine is the conversation turn orchestrator
type Engine struct {
	fetcher    *ContextFetcher
	products   ProductStore
	promotions PromotionStore
	emitter    *Emitter
	clients    llm.ClientFactory
	cfg        EngineConfig
	now        func() time.Time
}

func NewEngine(
	fetcher *ContextFetcher,
	products ProductStore,
	promotions PromotionStore,
	emitter *Emitter,
	clients llm.ClientFactory,
	cfg EngineConfig,
) *Engine {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = llm.DefaultChatModel
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = DefaultMaxToolRounds
	}
	return &Engine{
		fetcher:    fetcher,
		products:   products,
		promotions: promotions,
		emitter:    emitter,
		clients:    clients,
		cfg:        cfg,
		now:        time.Now,
	}
}

// HandleTurn adalah entry point untuk satu pesan chat
func (e *Engine) HandleTurn(ctx context.Context, caller Caller, req *ChatRequest) (*ChatResponse, error) {
	started := time.Now()

	avatarID, err := validateRequest(caller, req)
	if err != nil {
		return nil, err
	}

	tc, err := e.fetcher.Base(ctx, avatarID, caller.UserID)
	if err != nil {
		return nil, err
	}
	avatar := tc.Avatar
	model := resolveModel(req.Model, avatar, e.cfg.DefaultModel)

	// Hidden prices never reach the model
	if !avatar.PriceVisible && IsPriceQuery(req.Message) {
		log.Info().Str("avatar_id", avatar.ID.String()).Msg("🔒 Price query intercepted")
		resp := &ChatResponse{
			Success:  true,
			AvatarID: avatar.ID.String(),
			Message:  PriceEscalationReply(avatar.Delimiter()),
			Metadata: Metadata{
				Model:        model,
				ToolCallsLog: []ToolCallLog{},
				Debug:        map[string]interface{}{"price_query_intercepted": true},
			},
		}
		e.emitter.Emit(ctx, caller, avatar.ID, req, &resp.Metadata, http.StatusOK, OutcomePriceShortCircuit, started)
		return resp, nil
	}

	if err := e.fetcher.Enrich(ctx, tc, req.Message, req.PromptVersionID); err != nil {
		e.emitter.Emit(ctx, caller, avatar.ID, req, nil, http.StatusInternalServerError, OutcomeError, started)
		return nil, fmt.Errorf("failed to load conversation context: %w", err)
	}
	metrics.KnowledgeChunksRetrieved.Observe(float64(len(tc.Passages)))

	systemPrompt := BuildSystemPrompt(avatar, tc.PromptVersion, tc.Passages, tc.Memories)
	images := NewImageCollector()
	tools := NewToolExecutor(e.products, e.promotions, avatar, images, e.now)

	result, err := runToolLoop(ctx, e.clients.ChatClient(tc.ProviderKey), openai.ChatCompletionRequest{
		Model:       model,
		Messages:    BuildMessages(systemPrompt, req),
		Tools:       ToolDefinitions(),
		Temperature: chatTemperature,
	}, tools, e.cfg.MaxToolRounds, e.cfg.ModelTimeout)
	recordLoopMetrics(model, result)
	if err != nil {
		log.Error().Err(err).Str("avatar_id", avatar.ID.String()).Str("model", model).Msg("❌ Model call failed")
		e.emitter.Emit(ctx, caller, avatar.ID, req, nil, StatusOf(err), OutcomeError, started)
		return nil, err
	}

	reply := result.Reply
	debug := map[string]interface{}{}
	for k, v := range tools.Debug() {
		debug[k] = v
	}
	debug["tool_rounds"] = result.Rounds
	debug["model_calls"] = result.ModelCalls
	debug["prompt_version"] = promptVersionLabel(tc)

	outcome := OutcomeReplied
	if result.Exhausted {
		outcome = OutcomeRoundsExhausted
		debug["tool_rounds_exhausted"] = true
		log.Warn().Str("avatar_id", avatar.ID.String()).Int("rounds", result.Rounds).Msg("⚠️ Tool rounds exhausted, sending fallback reply")
	} else {
		var resolved, injected int
		reply, resolved = ResolveImageRefs(reply, images)
		reply, injected = InjectFallbackImages(reply, images.Images())
		debug["image_refs_resolved"] = resolved
		debug["images_injected"] = injected
	}

	resp := &ChatResponse{
		Success:  true,
		AvatarID: avatar.ID.String(),
		Message:  reply,
		Metadata: Metadata{
			Model:               model,
			KnowledgeChunksUsed: len(tc.Passages),
			MemoriesAccessed:    len(tc.Memories),
			ToolCallsExecuted:   len(result.ToolCalls),
			ToolCallsLog:        result.ToolCalls,
			ImagesCollected:     images.Len(),
			Debug:               debug,
		},
	}

	log.Info().
		Str("avatar_id", avatar.ID.String()).
		Str("model", model).
		Int("tool_calls", len(result.ToolCalls)).
		Int("images", images.Len()).
		Dur("elapsed", time.Since(started)).
		Msg("✅ Chat turn completed")

	e.emitter.Emit(ctx, caller, avatar.ID, req, &resp.Metadata, http.StatusOK, outcome, started)
	return resp, nil
}

func validateRequest(caller Caller, req *ChatRequest) (uuid.UUID, error) {
	if strings.TrimSpace(req.AvatarID) == "" || strings.TrimSpace(req.Message) == "" {
		return uuid.Nil, ErrMissingFields
	}
	avatarID, err := uuid.Parse(strings.TrimSpace(req.AvatarID))
	if err != nil {
		return uuid.Nil, ErrInvalidAvatarID
	}
	if req.MessageType == "" {
		req.MessageType = MessageTypeText
	}
	if !validMessageTypes[req.MessageType] {
		return uuid.Nil, ErrInvalidMessageType
	}
	if caller.RestrictedAvatarID != nil && *caller.RestrictedAvatarID != avatarID {
		return uuid.Nil, ErrAvatarNotAllowed
	}
	return avatarID, nil
}

// resolveModel: explicit request, then the avatar's fine-tuned model, then the default
func resolveModel(requested string, avatar *models.Avatar, fallback string) string {
	if m := strings.TrimSpace(requested); m != "" {
		return m
	}
	if avatar.FineTunedModel != "" {
		return avatar.FineTunedModel
	}
	return fallback
}

func promptVersionLabel(tc *TurnContext) interface{} {
	if tc.VersionFromAvatar || tc.PromptVersion == nil {
		return "avatar_defaults"
	}
	return tc.PromptVersion.VersionNumber
}

func recordLoopMetrics(model string, result *loopResult) {
	if result == nil {
		return
	}
	for _, call := range result.ToolCalls {
		status := "success"
		if !call.Success {
			status = "error"
		}
		metrics.ToolCallsTotal.WithLabelValues(call.Tool, status).Inc()
	}
	metrics.LLMTokensUsed.WithLabelValues(model, "prompt").Add(float64(result.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(model, "completion").Add(float64(result.CompletionTokens))
}

// BuildMessages lays out system prompt, the last MaxHistoryTurns of history and the current message
func BuildMessages(systemPrompt string, req *ChatRequest) []openai.ChatCompletionMessage {
	history := req.ConversationHistory
	if len(history) > MaxHistoryTurns {
		history = history[len(history)-MaxHistoryTurns:]
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})

	for _, turn := range history {
		role := strings.ToLower(strings.TrimSpace(turn.Role))
		if role != openai.ChatMessageRoleUser && role != openai.ChatMessageRoleAssistant {
			continue
		}
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}

	return append(messages, currentMessage(req))
}

func currentMessage(req *ChatRequest) openai.ChatCompletionMessage {
	media := req.Media
	if media == nil || req.MessageType == MessageTypeText {
		return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Message}
	}

	if req.MessageType == MessageTypeImage && media.URL != "" {
		return openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: req.Message},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    media.URL,
						Detail: openai.ImageURLDetailAuto,
					},
				},
			},
		}
	}

	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Message + "\n\n" + describeMedia(req.MessageType, media),
	}
}

// describeMedia renders attachments the model cannot see as text
func describeMedia(messageType string, media *Media) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[Customer sent a %s", messageType)
	if media.MimeType != "" {
		fmt.Fprintf(&sb, " (%s)", media.MimeType)
	}
	if media.Caption != "" {
		fmt.Fprintf(&sb, " with caption: %q", media.Caption)
	}
	sb.WriteString("]")
	return sb.String()
}
