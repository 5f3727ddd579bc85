package agent

import (
	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
)

const (
	MessageTypeText     = "text"
	MessageTypeImage    = "image"
	MessageTypeAudio    = "audio"
	MessageTypeVideo    = "video"
	MessageTypeDocument = "document"
	MessageTypeLocation = "location"
	MessageTypeSticker  = "sticker"

	// MaxHistoryTurns is how many trailing history turns reach the model
	MaxHistoryTurns = 30
)

var validMessageTypes = map[string]bool{
	MessageTypeText:     true,
	MessageTypeImage:    true,
	MessageTypeAudio:    true,
	MessageTypeVideo:    true,
	MessageTypeDocument: true,
	MessageTypeLocation: true,
	MessageTypeSticker:  true,
}

// Media describes a non-text attachment on the inbound message
type Media struct {
	Type     string `json:"type"`
	MimeType string `json:"mime_type"`
	URL      string `json:"url,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// HistoryTurn is one caller-managed prior turn
type HistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of the chat endpoint
type ChatRequest struct {
	AvatarID            string        `json:"avatar_id"`
	Message             string        `json:"message"`
	MessageType         string        `json:"message_type,omitempty"`
	Media               *Media        `json:"media,omitempty"`
	ConversationHistory []HistoryTurn `json:"conversation_history,omitempty"`
	Model               string        `json:"model,omitempty"`
	UserIdentifier      string        `json:"user_identifier,omitempty"`
	PromptVersionID     string        `json:"prompt_version_id,omitempty"`
}

// Caller is the authenticated principal behind a turn
type Caller struct {
	UserID uuid.UUID
	// APIKeyID is nil for session (test-mode) callers
	APIKeyID *uuid.UUID
	// RestrictedAvatarID limits an API key to a single avatar
	RestrictedAvatarID *uuid.UUID
	Endpoint           string
	Method             string
}

// ToolCallLog records one executed tool call
type ToolCallLog struct {
	Round       int                    `json:"round"`
	Tool        string                 `json:"tool"`
	Arguments   map[string]interface{} `json:"arguments,omitempty"`
	Success     bool                   `json:"success"`
	ResultCount int                    `json:"result_count"`
	Error       string                 `json:"error,omitempty"`
}

// Metadata accompanies every reply
type Metadata struct {
	Model               string                 `json:"model"`
	KnowledgeChunksUsed int                    `json:"knowledge_chunks_used"`
	MemoriesAccessed    int                    `json:"memories_accessed"`
	ToolCallsExecuted   int                    `json:"tool_calls_executed"`
	ToolCallsLog        []ToolCallLog          `json:"tool_calls_log"`
	ImagesCollected     int                    `json:"images_collected"`
	Debug               map[string]interface{} `json:"debug,omitempty"`
}

// ChatResponse is the success envelope of the chat endpoint
type ChatResponse struct {
	Success  bool     `json:"success"`
	AvatarID string   `json:"avatar_id"`
	Message  string   `json:"message"`
	Metadata Metadata `json:"metadata"`
}

// TurnContext is everything fetched before the prompt is assembled
type TurnContext struct {
	Avatar        *models.Avatar
	ProviderKey   string
	PromptVersion *models.PromptVersion
	// VersionFromAvatar is true when no saved version existed and one was built from the avatar row
	VersionFromAvatar bool
	Passages          []models.KnowledgePassage
	Memories          []models.Memory
}
