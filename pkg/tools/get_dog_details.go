package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/redpaw/redpaw/pkg/domain"
)

const recentHealthLogCount = 10

type DogGetRepository interface {
	GetByID(ctx context.Context, ownerID, dogID string) (*domain.Dog, error)
}

type HealthLogRepository interface {
	GetRecentByDog(ctx context.Context, ownerID, dogID string, limit int) ([]domain.HealthLog, error)
}

type getDogDetails struct {
	dogs       DogGetRepository
	healthLogs HealthLogRepository
}

func NewGetDogDetails(dogs DogGetRepository, healthLogs HealthLogRepository) *getDogDetails {
	return &getDogDetails{dogs: dogs, healthLogs: healthLogs}
}

func (g *getDogDetails) Name() string {
	return "get_dog_details"
}

func (g *getDogDetails) Description() string {
	return "Get one dog's full profile plus its most recent health logs. Only works for dogs owned by the current user."
}

func (g *getDogDetails) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"dog_id": {
				Type:        jsonschema.String,
				Description: "The id of the dog, as returned by get_my_dogs",
			},
		},
		Required: []string{"dog_id"},
	}
}

func (g *getDogDetails) Execute(ctx context.Context, userID string, args map[string]any) (any, error) {
	dogID := stringArg(args, "dog_id")
	if dogID == "" {
		return nil, errors.New("dog_id is required")
	}

	dog, err := g.dogs.GetByID(ctx, userID, dogID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// A dog owned by someone else reads the same as a missing one.
			return nil, errors.New("dog not found")
		}
		return nil, fmt.Errorf("fetching dog: %w", err)
	}

	logs, err := g.healthLogs.GetRecentByDog(ctx, userID, dogID, recentHealthLogCount)
	if err != nil {
		return nil, fmt.Errorf("fetching health logs: %w", err)
	}

	return map[string]any{
		"dog":                dog,
		"recent_health_logs": logs,
	}, nil
}
