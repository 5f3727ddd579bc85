package llm

import (
	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultChatModel      = "gpt-4o-mini"
	DefaultEmbeddingModel = "text-embedding-3-small"
)

// OpenAIFactory creates go-openai clients for tenant keys.
// baseURL is optional and points at an OpenAI-compatible gateway.
type OpenAIFactory struct {
	baseURL        string
	embeddingModel string
}

func NewOpenAIFactory(baseURL, embeddingModel string) *OpenAIFactory {
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	return &OpenAIFactory{
		baseURL:        baseURL,
		embeddingModel: embeddingModel,
	}
}

func (f *OpenAIFactory) newClient(apiKey string) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if f.baseURL != "" {
		config.BaseURL = f.baseURL
	}
	return openai.NewClientWithConfig(config)
}

func (f *OpenAIFactory) ChatClient(apiKey string) ChatCompleter {
	return f.newClient(apiKey)
}

func (f *OpenAIFactory) Embedder(apiKey string) Embedder {
	return &OpenAIEmbedder{
		client: f.newClient(apiKey),
		model:  f.embeddingModel,
	}
}
