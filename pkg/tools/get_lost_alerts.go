package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/redpaw/redpaw/pkg/domain"
	"github.com/redpaw/redpaw/pkg/logger"
)

type LostAlertListRepository interface {
	GetByOwner(ctx context.Context, ownerID, status string) ([]domain.LostAlert, error)
	CountSightings(ctx context.Context, alertID string) (int, error)
}

type getLostAlerts struct {
	alerts LostAlertListRepository
}

func NewGetLostAlerts(alerts LostAlertListRepository) *getLostAlerts {
	return &getLostAlerts{alerts: alerts}
}

func (g *getLostAlerts) Name() string {
	return "get_lost_alerts"
}

func (g *getLostAlerts) Description() string {
	return "List the user's lost-dog alerts with how many community sightings each has received."
}

func (g *getLostAlerts) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"status": {
				Type:        jsonschema.String,
				Description: "Alert status filter: active, found or closed. Omit for all.",
				Enum: []string{
					domain.LostAlertStatusActive,
					domain.LostAlertStatusFound,
					domain.LostAlertStatusClosed,
				},
			},
		},
	}
}

func (g *getLostAlerts) Execute(ctx context.Context, userID string, args map[string]any) (any, error) {
	alerts, err := g.alerts.GetByOwner(ctx, userID, stringArg(args, "status"))
	if err != nil {
		return nil, fmt.Errorf("fetching lost alerts: %w", err)
	}

	// Sighting counts come from a secondary query per alert, not a SQL join.
	for i := range alerts {
		count, err := g.alerts.CountSightings(ctx, alerts[i].ID)
		if err != nil {
			slog.WarnContext(ctx, "counting sightings", "alertID", alerts[i].ID, logger.Err(err))
			continue
		}
		alerts[i].SightingCount = count
	}

	return map[string]any{"alerts": alerts}, nil
}
