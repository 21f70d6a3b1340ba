package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/redpaw/redpaw/pkg/domain"
	"github.com/redpaw/redpaw/pkg/logger"
	"github.com/redpaw/redpaw/pkg/openai"
)

const toolTypeFunction = "function"

// Tool is what the registry needs from a tool implementation; the concrete
// tools live in pkg/tools.
type Tool interface {
	Name() string
	Description() string
	Parameters() jsonschema.Definition
	Execute(ctx context.Context, userID string, args map[string]any) (any, error)
}

type toolService struct {
	registry map[string]Tool
	defs     []openai.Tool
}

func NewToolService(toolFunctions []Tool) (*toolService, error) {
	registry := make(map[string]Tool, len(toolFunctions))
	defs := make([]openai.Tool, 0, len(toolFunctions))

	for _, t := range toolFunctions {
		if t.Name() == "" {
			return nil, errors.New("tool name cannot be empty")
		}
		if _, exists := registry[t.Name()]; exists {
			return nil, fmt.Errorf("duplicate tool %q", t.Name())
		}
		registry[t.Name()] = t
		defs = append(defs, openai.Tool{
			Type: toolTypeFunction,
			Function: &openai.Function{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}

	return &toolService{registry: registry, defs: defs}, nil
}

// Definitions returns the fixed tool schema sent to the model.
func (ts *toolService) Definitions() []openai.Tool {
	return ts.defs
}

// Dispatch executes the model's tool calls sequentially, in call order, and
// returns exactly one tool message per call, each tagged with its
// originating call id. Handler errors become {"error": "..."} results so
// the model can relay them conversationally; Dispatch itself only fails on
// serialization bugs.
func (ts *toolService) Dispatch(ctx context.Context, userID string, calls []domain.ToolCall) ([]domain.ChatMessage, error) {
	results := make([]domain.ChatMessage, 0, len(calls))

	for _, call := range calls {
		content, err := ts.invoke(ctx, userID, call)
		if err != nil {
			return nil, err
		}
		results = append(results, domain.ChatMessage{
			Role:       domain.ChatMessageRoleTool,
			Name:       call.Function.Name,
			ToolCallID: call.ID,
			Content:    content,
		})
	}

	return results, nil
}

func (ts *toolService) invoke(ctx context.Context, userID string, call domain.ToolCall) (string, error) {
	slog.DebugContext(ctx, "Invoking tool", "name", call.Function.Name, "args", call.Function.Arguments)

	tool, exists := ts.registry[call.Function.Name]
	if !exists {
		return marshalToolError(fmt.Sprintf("unknown tool: %s", call.Function.Name))
	}

	// Tolerate malformed argument JSON by substituting empty args.
	args := map[string]any{}
	if raw := call.Function.Arguments; raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			slog.WarnContext(ctx, "Tool arguments failed to parse, substituting empty args",
				"name", call.Function.Name, logger.Err(err))
			args = map[string]any{}
		}
	}

	result, err := tool.Execute(ctx, userID, args)
	if err != nil {
		slog.WarnContext(ctx, "Tool returned error", "name", call.Function.Name, logger.Err(err))
		return marshalToolError(err.Error())
	}

	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshaling result of tool %q: %w", call.Function.Name, err)
	}

	return string(data), nil
}

func marshalToolError(message string) (string, error) {
	data, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		return "", fmt.Errorf("marshaling tool error: %w", err)
	}
	return string(data), nil
}
