package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/redpaw/redpaw/pkg/domain"
)

const defaultBaseURL = "https://api.openai.com/v1"

// GatewayError carries the upstream HTTP status so handlers can map it to
// the client-facing taxonomy (rate-limited, payment-required, unavailable).
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("model gateway returned status %d: %s", e.StatusCode, e.Message)
}

type client struct {
	baseURL string
	token   string
	model   string
	hc      *http.Client
}

func NewClient(baseURL, token, model string) (*client, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &client{
		baseURL: baseURL,
		token:   token,
		model:   model,
		hc:      &http.Client{},
	}, nil
}

// CreateChatCompletion issues a non-streaming completion. tools may be nil;
// when present tool_choice is auto and the model decides.
func (c *client) CreateChatCompletion(ctx context.Context, messages []domain.ChatMessage, tools []Tool) (*domain.ChatMessage, error) {
	req := &chatCompletionsRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: 4096,
		Tools:     tools,
	}
	if len(tools) > 0 {
		req.ToolChoice = "auto"
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var completion chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("decoding response data: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	message := completion.Choices[0].Message
	if message.Role != domain.ChatMessageRoleAssistant {
		return nil, fmt.Errorf("unexpected role: received %q, expected %q", message.Role, domain.ChatMessageRoleAssistant)
	}

	return &message, nil
}

// CreateChatCompletionStream issues a streaming completion and returns the
// raw SSE body. The caller owns closing it.
func (c *client) CreateChatCompletionStream(ctx context.Context, messages []domain.ChatMessage) (io.ReadCloser, error) {
	req := &chatCompletionsRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: 4096,
		Stream:    true,
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

func (c *client) send(ctx context.Context, request *chatCompletionsRequest) (*http.Response, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing HTTP request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: string(bodyBytes)}
	}

	return resp, nil
}
