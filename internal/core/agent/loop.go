package agent

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/llm"
)

const (
	DefaultMaxToolRounds = 5

	toolRoundsExhaustedReply = "Sorry, I need a bit more time to look into that. Could you tell me a little more about what you are looking for?"
)

// toolRunner executes a single tool call
type toolRunner interface {
	Execute(ctx context.Context, name, rawArgs string) (string, ToolCallLog)
}

type loopResult struct {
	Reply            string
	ToolCalls        []ToolCallLog
	Rounds           int
	Exhausted        bool
	ModelCalls       int
	PromptTokens     int
	CompletionTokens int
}

// runToolLoop drives model -> tools -> model until the model answers without
// tool calls. At most maxRounds tool rounds run; past that the turn ends with
// a fallback reply.
func runToolLoop(
	ctx context.Context,
	client llm.ChatCompleter,
	req openai.ChatCompletionRequest,
	tools toolRunner,
	maxRounds int,
	callTimeout time.Duration,
) (*loopResult, error) {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	copy(messages, req.Messages)

	result := &loopResult{ToolCalls: []ToolCallLog{}}

	for {
		req.Messages = messages
		resp, err := callModel(ctx, client, req, callTimeout)
		result.ModelCalls++
		if err != nil {
			return result, upstreamError(err)
		}
		result.PromptTokens += resp.Usage.PromptTokens
		result.CompletionTokens += resp.Usage.CompletionTokens

		if len(resp.Choices) == 0 {
			return result, upstreamError(errors.New("no choices in completion"))
		}
		msg := resp.Choices[0].Message

		if len(msg.ToolCalls) == 0 {
			result.Reply = msg.Content
			return result, nil
		}

		if result.Rounds >= maxRounds {
			result.Exhausted = true
			result.Reply = toolRoundsExhaustedReply
			return result, nil
		}
		result.Rounds++

		messages = append(messages, openai.ChatCompletionMessage{
			Role:      openai.ChatMessageRoleAssistant,
			Content:   msg.Content,
			ToolCalls: msg.ToolCalls,
		})

		for _, call := range msg.ToolCalls {
			output, entry := tools.Execute(ctx, call.Function.Name, call.Function.Arguments)
			entry.Round = result.Rounds
			result.ToolCalls = append(result.ToolCalls, entry)

			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    output,
				Name:       call.Function.Name,
				ToolCallID: call.ID,
			})
		}
	}
}

func callModel(ctx context.Context, client llm.ChatCompleter, req openai.ChatCompletionRequest, timeout time.Duration) (openai.ChatCompletionResponse, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return client.CreateChatCompletion(ctx, req)
}
