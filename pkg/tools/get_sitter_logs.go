package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/redpaw/redpaw/pkg/domain"
)

const maxSitterLogs = 50

type CareRequestGetRepository interface {
	GetByID(ctx context.Context, requestID string) (*domain.CareRequest, error)
}

type SitterLogRepository interface {
	GetByRequest(ctx context.Context, requestID string, limit int) ([]domain.SitterLog, error)
}

type getSitterLogs struct {
	requests CareRequestGetRepository
	logs     SitterLogRepository
}

func NewGetSitterLogs(requests CareRequestGetRepository, logs SitterLogRepository) *getSitterLogs {
	return &getSitterLogs{requests: requests, logs: logs}
}

func (g *getSitterLogs) Name() string {
	return "get_sitter_logs"
}

func (g *getSitterLogs) Description() string {
	return "Get the sitter's activity logs for one care request. Only the request's owner or its assigned sitter may read them."
}

func (g *getSitterLogs) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"request_id": {
				Type:        jsonschema.String,
				Description: "The care request id, as returned by get_care_requests",
			},
		},
		Required: []string{"request_id"},
	}
}

func (g *getSitterLogs) Execute(ctx context.Context, userID string, args map[string]any) (any, error) {
	requestID := stringArg(args, "request_id")
	if requestID == "" {
		return nil, errors.New("request_id is required")
	}

	req, err := g.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errors.New("care request not found")
		}
		return nil, fmt.Errorf("fetching care request: %w", err)
	}

	// Access is gated explicitly here: the caller must be one of the two
	// parties. Denial is an ordinary result so the model can explain it.
	if req.OwnerID != userID && req.SitterID != userID {
		return map[string]string{
			"error": "Access denied: only the request's owner or its assigned sitter can view these logs.",
		}, nil
	}

	logs, err := g.logs.GetByRequest(ctx, requestID, maxSitterLogs)
	if err != nil {
		return nil, fmt.Errorf("fetching sitter logs: %w", err)
	}

	return map[string]any{"logs": logs}, nil
}
