package tools

import (
	"context"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Tool is a function the assistant can ask to have executed. Execute runs
// scoped to the authenticated user; its result is serialized to JSON and
// handed back to the model. An error becomes a conversational
// {"error": "..."} tool result, never a request failure.
type Tool interface {
	Name() string
	Description() string
	Parameters() jsonschema.Definition
	Execute(ctx context.Context, userID string, args map[string]any) (any, error)
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]any, key string, fallback int) int {
	// JSON numbers decode as float64.
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return fallback
}
