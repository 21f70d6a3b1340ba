package openai

import (
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/redpaw/redpaw/pkg/domain"
)

type Tool struct {
	Type     string    `json:"type"`
	Function *Function `json:"function,omitempty"`
}

type Function struct {
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Parameters  jsonschema.Definition `json:"parameters"`
}

type chatCompletionsRequest struct {
	Model      string               `json:"model"`
	Messages   []domain.ChatMessage `json:"messages"`
	MaxTokens  int                  `json:"max_tokens,omitempty"`
	Tools      []Tool               `json:"tools,omitempty"`
	ToolChoice string               `json:"tool_choice,omitempty"`
	Stream     bool                 `json:"stream,omitempty"`
}

type chatCompletionsResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int    `json:"created"`
	Model   string `json:"model"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Choices []struct {
		Message      domain.ChatMessage `json:"message"`
		FinishReason string             `json:"finish_reason"`
		Index        int                `json:"index"`
	} `json:"choices"`
}
