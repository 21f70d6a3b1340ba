package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/redpaw/redpaw/pkg/api/response"
	"github.com/redpaw/redpaw/pkg/auth"
	"github.com/redpaw/redpaw/pkg/domain"
	"github.com/redpaw/redpaw/pkg/logger"
	"github.com/redpaw/redpaw/pkg/openai"
)

type AssistantProvider interface {
	Answer(ctx context.Context, userID string, messages []domain.ChatMessage) (io.ReadCloser, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

type assistant struct {
	provider      AssistantProvider
	authenticator Authenticator
	writer        response.JSONResponseWriter
}

func NewAssistant(provider AssistantProvider, authenticator Authenticator) *assistant {
	return &assistant{
		provider:      provider,
		authenticator: authenticator,
	}
}

type assistantRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
}

// Chat answers one assistant turn. Authentication is optional: a missing or
// invalid token only disables the data tools, it never fails the request.
func (a *assistant) Chat(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writer.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if len(req.Messages) == 0 {
		a.writer.WriteErrorResponse(w, http.StatusBadRequest, "Messages are missing or empty.")
		return
	}

	userID := a.identify(r)

	stream, err := a.provider.Answer(r.Context(), userID, req.Messages)
	if err != nil {
		a.writeUpstreamError(r.Context(), w, err)
		return
	}
	defer stream.Close()

	a.relay(r.Context(), w, stream)
}

func (a *assistant) identify(r *http.Request) string {
	token := auth.BearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return ""
	}

	userID, err := a.authenticator.Authenticate(r.Context(), token)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.ErrorContext(r.Context(), "Authenticating request", logger.Err(err))
		}
		return ""
	}
	return userID
}

func (a *assistant) writeUpstreamError(ctx context.Context, w http.ResponseWriter, err error) {
	slog.ErrorContext(ctx, "Assistant turn failed", logger.Err(err))

	var gatewayErr *openai.GatewayError
	if errors.As(err, &gatewayErr) {
		switch gatewayErr.StatusCode {
		case http.StatusTooManyRequests:
			a.writer.WriteErrorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again in a moment.")
			return
		case http.StatusPaymentRequired:
			a.writer.WriteErrorResponse(w, http.StatusPaymentRequired, "AI service quota exceeded.")
			return
		}
	}

	a.writer.WriteErrorResponse(w, http.StatusInternalServerError, "AI service is temporarily unavailable.")
}

// relay copies the upstream SSE body to the client verbatim, flushing after
// every read so events are not held back by response buffering.
func (a *assistant) relay(ctx context.Context, w http.ResponseWriter, stream io.Reader) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)

	buf := make([]byte, 4096)
	for {
		n, err := stream.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				slog.WarnContext(ctx, "Client disconnected during stream", logger.Err(writeErr))
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				slog.WarnContext(ctx, "Upstream stream ended abnormally", logger.Err(err))
			}
			return
		}
	}
}
