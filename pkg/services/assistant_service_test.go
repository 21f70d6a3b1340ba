package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/redpaw/redpaw/pkg/domain"
	"github.com/redpaw/redpaw/pkg/openai"
)

type fakeGateway struct {
	completion *domain.ChatMessage
	stream     string

	completionCalls   int
	completionTools   []openai.Tool
	streamTranscripts [][]domain.ChatMessage
}

func (f *fakeGateway) CreateChatCompletion(_ context.Context, _ []domain.ChatMessage, tools []openai.Tool) (*domain.ChatMessage, error) {
	f.completionCalls++
	f.completionTools = tools
	return f.completion, nil
}

func (f *fakeGateway) CreateChatCompletionStream(_ context.Context, messages []domain.ChatMessage) (io.ReadCloser, error) {
	f.streamTranscripts = append(f.streamTranscripts, messages)
	return io.NopCloser(strings.NewReader(f.stream)), nil
}

func userTurn(text string) []domain.ChatMessage {
	return []domain.ChatMessage{{Role: domain.ChatMessageRoleUser, Content: text}}
}

func TestAnswerWithoutToolCallsStreamsDirectly(t *testing.T) {
	gateway := &fakeGateway{
		completion: &domain.ChatMessage{Role: domain.ChatMessageRoleAssistant, Content: "hi"},
		stream:     "data: [DONE]\n\n",
	}
	ts, _ := NewToolService([]Tool{&stubTool{name: "alpha"}})
	svc := NewAssistantService(gateway, ts)

	stream, err := svc.Answer(context.Background(), "u1", userTurn("hello"))
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	defer stream.Close()

	if gateway.completionCalls != 1 {
		t.Errorf("expected 1 completion call, got %d", gateway.completionCalls)
	}
	if len(gateway.streamTranscripts) != 1 {
		t.Fatalf("expected 1 stream call, got %d", len(gateway.streamTranscripts))
	}

	transcript := gateway.streamTranscripts[0]
	if transcript[0].Role != domain.ChatMessageRoleSystem {
		t.Error("expected system prompt to lead the transcript")
	}
	for _, msg := range transcript {
		if msg.Role == domain.ChatMessageRoleTool {
			t.Error("no tool messages expected without tool calls")
		}
	}
}

func TestAnswerUnauthenticatedDisablesTools(t *testing.T) {
	gateway := &fakeGateway{
		completion: &domain.ChatMessage{Role: domain.ChatMessageRoleAssistant, Content: "hi"},
	}
	ts, _ := NewToolService([]Tool{&stubTool{name: "alpha"}})
	svc := NewAssistantService(gateway, ts)

	if _, err := svc.Answer(context.Background(), "", userTurn("hi")); err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}

	if gateway.completionTools != nil {
		t.Errorf("expected no tool definitions for anonymous user, got %d", len(gateway.completionTools))
	}
}

func TestAnswerAuthenticatedAttachesTools(t *testing.T) {
	gateway := &fakeGateway{
		completion: &domain.ChatMessage{Role: domain.ChatMessageRoleAssistant, Content: "hi"},
	}
	ts, _ := NewToolService([]Tool{&stubTool{name: "alpha"}})
	svc := NewAssistantService(gateway, ts)

	if _, err := svc.Answer(context.Background(), "u1", userTurn("hi")); err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}

	if len(gateway.completionTools) != 1 {
		t.Fatalf("expected 1 tool definition, got %d", len(gateway.completionTools))
	}
}

func TestAnswerToolCallBranch(t *testing.T) {
	assistantMsg := &domain.ChatMessage{
		Role: domain.ChatMessageRoleAssistant,
		ToolCalls: []domain.ToolCall{
			call("c1", "alpha", "{}"),
			call("c2", "beta", "{}"),
		},
	}
	gateway := &fakeGateway{completion: assistantMsg}
	ts, _ := NewToolService([]Tool{
		&stubTool{name: "alpha", result: "a"},
		&stubTool{name: "beta", result: "b"},
	})
	svc := NewAssistantService(gateway, ts)

	if _, err := svc.Answer(context.Background(), "u1", userTurn("check my dogs")); err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}

	transcript := gateway.streamTranscripts[0]

	// Expect system + user + assistant tool-call message + one result per call.
	if len(transcript) != 5 {
		t.Fatalf("expected 5 transcript messages, got %d", len(transcript))
	}
	if len(transcript[2].ToolCalls) != 2 {
		t.Error("assistant tool-call message missing from transcript")
	}

	wantIDs := []string{"c1", "c2"}
	for i, id := range wantIDs {
		msg := transcript[3+i]
		if msg.Role != domain.ChatMessageRoleTool {
			t.Errorf("message %d: expected tool role, got %q", 3+i, msg.Role)
		}
		if msg.ToolCallID != id {
			t.Errorf("message %d: expected call id %q, got %q", 3+i, id, msg.ToolCallID)
		}
	}
}
