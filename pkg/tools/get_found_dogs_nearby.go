package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/redpaw/redpaw/pkg/domain"
)

const foundDogsListLimit = 50

type FoundDogRepository interface {
	GetRecent(ctx context.Context, status string, since time.Time, limit int) ([]domain.FoundDog, error)
}

type getFoundDogsNearby struct {
	foundDogs FoundDogRepository
}

func NewGetFoundDogsNearby(foundDogs FoundDogRepository) *getFoundDogsNearby {
	return &getFoundDogsNearby{foundDogs: foundDogs}
}

func (g *getFoundDogsNearby) Name() string {
	return "get_found_dogs_nearby"
}

func (g *getFoundDogsNearby) Description() string {
	return "List community posts about found dogs. These posts are public and visible to everyone."
}

func (g *getFoundDogsNearby) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"status": {
				Type:        jsonschema.String,
				Description: "Post status filter: active, reunited or closed. Defaults to active.",
				Enum:        []string{"active", "reunited", "closed"},
			},
		},
	}
}

func (g *getFoundDogsNearby) Execute(ctx context.Context, _ string, args map[string]any) (any, error) {
	status := stringArg(args, "status")
	if status == "" {
		status = domain.FoundDogStatusActive
	}

	dogs, err := g.foundDogs.GetRecent(ctx, status, time.Time{}, foundDogsListLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching found dogs: %w", err)
	}

	return map[string]any{"found_dogs": dogs}, nil
}
