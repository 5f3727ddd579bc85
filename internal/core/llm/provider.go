package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the part of the chat-completions API the agent drives.
// *openai.Client satisfies it; tests script it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Embedder turns text into vectors for knowledge retrieval
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateBatchEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
}

// ClientFactory builds clients per tenant, since every tenant brings its own provider key
type ClientFactory interface {
	ChatClient(apiKey string) ChatCompleter
	Embedder(apiKey string) Embedder
}
