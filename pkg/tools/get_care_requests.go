package tools

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/redpaw/redpaw/pkg/domain"
)

type CareRequestListRepository interface {
	GetForUser(ctx context.Context, userID, status, role string) ([]domain.CareRequest, error)
}

type getCareRequests struct {
	requests CareRequestListRepository
}

func NewGetCareRequests(requests CareRequestListRepository) *getCareRequests {
	return &getCareRequests{requests: requests}
}

func (g *getCareRequests) Name() string {
	return "get_care_requests"
}

func (g *getCareRequests) Description() string {
	return "List pet-sitting care requests where the user is the owner or the assigned sitter. Defaults to open requests in either role."
}

func (g *getCareRequests) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"status": {
				Type:        jsonschema.String,
				Description: "Request status filter: open, assigned, completed or cancelled. Defaults to open.",
				Enum:        []string{"open", "assigned", "completed", "cancelled"},
			},
			"role": {
				Type:        jsonschema.String,
				Description: "Which side of the request: owner or sitter. Omit for both.",
				Enum:        []string{"owner", "sitter"},
			},
		},
	}
}

func (g *getCareRequests) Execute(ctx context.Context, userID string, args map[string]any) (any, error) {
	status := stringArg(args, "status")
	if status == "" {
		status = domain.CareRequestStatusOpen
	}
	role := stringArg(args, "role")

	requests, err := g.requests.GetForUser(ctx, userID, status, role)
	if err != nil {
		return nil, fmt.Errorf("fetching care requests: %w", err)
	}

	for i := range requests {
		requests[i].YourRole = careRole(&requests[i], userID)
	}

	return map[string]any{"requests": requests}, nil
}

func careRole(req *domain.CareRequest, userID string) string {
	if req.OwnerID == userID {
		return domain.CareRoleOwner
	}
	if req.SitterID == userID {
		return domain.CareRoleSitter
	}
	return ""
}
