package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
)

// scriptedModel replays canned completions and records every request.
// Once the script runs out the last response repeats.
type scriptedModel struct {
	mu        sync.Mutex
	responses []openai.ChatCompletionResponse
	requests  []openai.ChatCompletionRequest
	err       error
}

func (m *scriptedModel) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := req
	snapshot.Messages = append([]openai.ChatCompletionMessage(nil), req.Messages...)
	m.requests = append(m.requests, snapshot)

	if m.err != nil {
		return openai.ChatCompletionResponse{}, m.err
	}
	if len(m.responses) == 0 {
		return openai.ChatCompletionResponse{}, errors.New("script is empty")
	}
	idx := len(m.requests) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return m.responses[idx], nil
}

func (m *scriptedModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func textResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
			FinishReason: openai.FinishReasonStop,
		}},
		Usage: openai.Usage{PromptTokens: 100, CompletionTokens: 20},
	}
}

func toolCallResponse(calls ...openai.ToolCall) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, ToolCalls: calls},
			FinishReason: openai.FinishReasonToolCalls,
		}},
		Usage: openai.Usage{PromptTokens: 80, CompletionTokens: 10},
	}
}

func toolCall(id, name, args string) openai.ToolCall {
	return openai.ToolCall{
		ID:       id,
		Type:     openai.ToolTypeFunction,
		Function: openai.FunctionCall{Name: name, Arguments: args},
	}
}

type fakeClients struct {
	model *scriptedModel
	keys  []string
}

func (f *fakeClients) ChatClient(apiKey string) llm.ChatCompleter {
	f.keys = append(f.keys, apiKey)
	return f.model
}

func (f *fakeClients) Embedder(apiKey string) llm.Embedder { return nil }

type fakeAvatars struct {
	avatars map[uuid.UUID]*models.Avatar
}

func (f *fakeAvatars) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Avatar, error) {
	a, ok := f.avatars[id]
	if !ok || a.UserID != userID || a.IsTrashed() {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

type fakeVersions struct {
	versions []models.PromptVersion
}

func (f *fakeVersions) GetByID(ctx context.Context, avatarID, versionID uuid.UUID) (*models.PromptVersion, error) {
	for i := range f.versions {
		if f.versions[i].ID == versionID && f.versions[i].AvatarID == avatarID {
			return &f.versions[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVersions) GetActive(ctx context.Context, avatarID uuid.UUID) (*models.PromptVersion, error) {
	for i := range f.versions {
		if f.versions[i].AvatarID == avatarID && f.versions[i].IsActive {
			return &f.versions[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeMemories struct {
	memories []models.Memory
}

func (f *fakeMemories) Recent(ctx context.Context, avatarID, userID uuid.UUID, limit int) ([]models.Memory, error) {
	var out []models.Memory
	for _, m := range f.memories {
		if m.AvatarID == avatarID && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeKeys struct {
	keys map[uuid.UUID]string
}

func (f *fakeKeys) GetActiveKey(ctx context.Context, userID uuid.UUID, provider string) (string, error) {
	k, ok := f.keys[userID]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return k, nil
}

type fakeKnowledge struct {
	passages []models.KnowledgePassage
	err      error
}

func (f *fakeKnowledge) Search(ctx context.Context, apiKey string, avatarID uuid.UUID, query string, threshold float64, limit int) ([]models.KnowledgePassage, error) {
	return f.passages, f.err
}

type fakeProducts struct {
	products []models.Product
}

func (f *fakeProducts) GetByID(ctx context.Context, avatarID, productID uuid.UUID) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].ID == productID && f.products[i].AvatarID == avatarID {
			return &f.products[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProducts) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.AvatarID != filter.AvatarID || !p.IsActive {
			continue
		}
		if !filter.IncludeOutOfStock && !p.InStock {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.SearchTerm != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.SKU+" "+p.Category+" "+p.Description), strings.ToLower(filter.SearchTerm)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) Search(ctx context.Context, avatarID uuid.UUID, term string, limit int) ([]models.Product, error) {
	return f.List(ctx, models.ProductFilter{AvatarID: avatarID, SearchTerm: term, IncludeOutOfStock: true})
}

func (f *fakeProducts) ByCategory(ctx context.Context, avatarID uuid.UUID, category string) ([]models.Product, error) {
	return f.List(ctx, models.ProductFilter{AvatarID: avatarID, Category: category, IncludeOutOfStock: true})
}

func (f *fakeProducts) Categories(ctx context.Context, avatarID uuid.UUID) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range f.products {
		if p.AvatarID == avatarID && p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

type fakePromotions struct {
	promotions []models.Promotion
	err        error
}

func (f *fakePromotions) ListActive(ctx context.Context, avatarID uuid.UUID) ([]models.Promotion, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Promotion
	for _, p := range f.promotions {
		if p.AvatarID == avatarID && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePromotions) FindByCode(ctx context.Context, avatarID uuid.UUID, code string) (*models.Promotion, error) {
	for i := range f.promotions {
		if f.promotions[i].AvatarID == avatarID && strings.EqualFold(f.promotions[i].PromoCode, code) {
			return &f.promotions[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeLogs struct {
	mu      sync.Mutex
	entries []models.APIRequestLog
}

func (f *fakeLogs) Create(ctx context.Context, entry *models.APIRequestLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

type fakeUsage struct {
	counts map[uuid.UUID]int
}

func (f *fakeUsage) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	if f.counts == nil {
		f.counts = map[uuid.UUID]int{}
	}
	f.counts[id]++
	return nil
}

// fixture wires an Engine over in-memory fakes with one avatar
type fixture struct {
	avatar     *models.Avatar
	userID     uuid.UUID
	model      *scriptedModel
	clients    *fakeClients
	products   *fakeProducts
	promotions *fakePromotions
	versions   *fakeVersions
	knowledge  *fakeKnowledge
	logs       *fakeLogs
	usage      *fakeUsage
	engine     *Engine
}

func newFixture(priceVisible bool) *fixture {
	userID := uuid.New()
	avatar := &models.Avatar{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         "Aina",
		CompanyName:  "Gadget Hub",
		PriceVisible: priceVisible,
		Status:       models.AvatarStatusActive,
	}

	f := &fixture{
		avatar:     avatar,
		userID:     userID,
		model:      &scriptedModel{},
		products:   &fakeProducts{},
		promotions: &fakePromotions{},
		versions:   &fakeVersions{},
		knowledge:  &fakeKnowledge{},
		logs:       &fakeLogs{},
		usage:      &fakeUsage{},
	}
	f.clients = &fakeClients{model: f.model}

	fetcher := NewContextFetcher(
		&fakeAvatars{avatars: map[uuid.UUID]*models.Avatar{avatar.ID: avatar}},
		f.versions,
		&fakeMemories{},
		&fakeKeys{keys: map[uuid.UUID]string{userID: "sk-tenant-key"}},
		f.knowledge,
	)
	f.engine = NewEngine(fetcher, f.products, f.promotions, NewEmitter(f.logs, f.usage), f.clients, EngineConfig{
		DefaultModel:  "gpt-4o-mini",
		MaxToolRounds: 3,
	})
	return f
}

func (f *fixture) caller() Caller {
	return Caller{UserID: f.userID, Endpoint: "/functions/v1/avatar-chat", Method: "POST"}
}

func (f *fixture) addProduct(p models.Product) models.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.AvatarID = f.avatar.ID
	p.UserID = f.userID
	p.IsActive = true
	f.products.products = append(f.products.products, p)
	return p
}

func decodeToolContent(content string) map[string]interface{} {
	var out map[string]interface{}
	_ = json.Unmarshal([]byte(content), &out)
	return out
}
