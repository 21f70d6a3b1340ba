package tools

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/redpaw/redpaw/pkg/domain"
)

type DogListRepository interface {
	GetByOwner(ctx context.Context, ownerID string) ([]domain.Dog, error)
}

type getMyDogs struct {
	dogs DogListRepository
}

func NewGetMyDogs(dogs DogListRepository) *getMyDogs {
	return &getMyDogs{dogs: dogs}
}

func (g *getMyDogs) Name() string {
	return "get_my_dogs"
}

func (g *getMyDogs) Description() string {
	return "List all dogs registered by the current user, with breed, color, size and birth date."
}

func (g *getMyDogs) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type:       jsonschema.Object,
		Properties: map[string]jsonschema.Definition{},
	}
}

func (g *getMyDogs) Execute(ctx context.Context, userID string, _ map[string]any) (any, error) {
	dogs, err := g.dogs.GetByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching dogs: %w", err)
	}

	// An empty list gives the model nothing to talk about; answer with
	// guidance instead.
	if len(dogs) == 0 {
		return map[string]string{
			"message":    "No dogs found.",
			"suggestion": "The user has not added any dogs yet. Suggest adding a dog profile first.",
		}, nil
	}

	return map[string]any{"dogs": dogs}, nil
}
