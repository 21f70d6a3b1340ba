package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/redpaw/redpaw/pkg/domain"
	"github.com/redpaw/redpaw/pkg/openai"
)

const defaultSystemPrompt = `You are the RedPaw assistant, a friendly helper for dog owners. ` +
	`You can look up the user's dogs, their health and medication records, pet-sitting ` +
	`care requests, sitter logs, lost-dog alerts and community found-dog posts using your tools. ` +
	`When the user is not signed in you have no tools; answer general dog-care questions ` +
	`and encourage signing in for anything personal. Keep answers short and warm. ` +
	`Never invent records: if a tool reports an error or finds nothing, say so plainly.`

type GatewayClient interface {
	CreateChatCompletion(ctx context.Context, messages []domain.ChatMessage, tools []openai.Tool) (*domain.ChatMessage, error)
	CreateChatCompletionStream(ctx context.Context, messages []domain.ChatMessage) (io.ReadCloser, error)
}

type assistantService struct {
	gateway      GatewayClient
	tools        *toolService
	systemPrompt string
}

func NewAssistantService(gateway GatewayClient, tools *toolService) *assistantService {
	return &assistantService{
		gateway:      gateway,
		tools:        tools,
		systemPrompt: defaultSystemPrompt,
	}
}

// Answer runs the orchestration loop for one chat turn and returns the raw
// SSE stream of the final answer. userID may be empty: the assistant still
// answers, with tools disabled.
//
// The loop is strictly sequential: the streaming call cannot be built until
// every tool result from the first call is in.
func (s *assistantService) Answer(ctx context.Context, userID string, messages []domain.ChatMessage) (io.ReadCloser, error) {
	transcript := make([]domain.ChatMessage, 0, len(messages)+1)
	transcript = append(transcript, domain.ChatMessage{
		Role:    domain.ChatMessageRoleSystem,
		Content: s.systemPrompt,
	})
	transcript = append(transcript, messages...)

	var defs []openai.Tool
	if userID != "" {
		defs = s.tools.Definitions()
	}

	response, err := s.gateway.CreateChatCompletion(ctx, transcript, defs)
	if err != nil {
		return nil, fmt.Errorf("first model call: %w", err)
	}

	if len(response.ToolCalls) == 0 {
		return s.gateway.CreateChatCompletionStream(ctx, transcript)
	}

	slog.InfoContext(ctx, "Executing tool calls", "count", len(response.ToolCalls))

	results, err := s.tools.Dispatch(ctx, userID, response.ToolCalls)
	if err != nil {
		return nil, fmt.Errorf("dispatching tool calls: %w", err)
	}

	transcript = append(transcript, *response)
	transcript = append(transcript, results...)

	return s.gateway.CreateChatCompletionStream(ctx, transcript)
}
