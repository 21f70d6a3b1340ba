package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/redpaw/redpaw/pkg/domain"
)

const (
	defaultSearchDaysBack    = 30
	searchCandidateLimit     = 25
	foundDogMatchingGuidance = `Compare the candidates below against the dog the user described or showed you. ` +
		`Apply these rules strictly: a color mismatch ALWAYS disqualifies a candidate; ` +
		`a size mismatch ALWAYS disqualifies a candidate; breed similarity is secondary ` +
		`evidence only, since breed guesses by finders are often wrong. ` +
		`Rank the surviving candidates by how well their markings and breed guess match, ` +
		`and tell the user about the most promising ones, including where and when each was found.`
)

type searchFoundDogs struct {
	foundDogs FoundDogRepository
	now       func() time.Time
}

func NewSearchFoundDogs(foundDogs FoundDogRepository) *searchFoundDogs {
	return &searchFoundDogs{
		foundDogs: foundDogs,
		now:       time.Now,
	}
}

func (s *searchFoundDogs) Name() string {
	return "search_found_dogs_by_attributes"
}

func (s *searchFoundDogs) Description() string {
	return "Search recent found-dog posts by appearance. Returns a candidate list plus instructions for judging matches; the final matching judgment is yours."
}

func (s *searchFoundDogs) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"breed_guess": {
				Type:        jsonschema.String,
				Description: "Best guess of the breed",
			},
			"color": {
				Type:        jsonschema.String,
				Description: "Primary coat color",
			},
			"size": {
				Type:        jsonschema.String,
				Description: "Dog size: small, medium or large",
			},
			"markings": {
				Type:        jsonschema.String,
				Description: "Distinctive markings, if any",
			},
			"days_back": {
				Type:        jsonschema.Integer,
				Description: "How many days back to search. Defaults to 30.",
			},
		},
		Required: []string{"breed_guess", "color", "size"},
	}
}

// Execute narrows the candidate window; it does not judge visual similarity.
// The matching policy travels back to the model as text.
func (s *searchFoundDogs) Execute(ctx context.Context, _ string, args map[string]any) (any, error) {
	breedGuess := stringArg(args, "breed_guess")
	color := stringArg(args, "color")
	size := stringArg(args, "size")
	if breedGuess == "" || color == "" || size == "" {
		return nil, errors.New("breed_guess, color and size are required")
	}

	daysBack := intArg(args, "days_back", defaultSearchDaysBack)
	if daysBack <= 0 {
		daysBack = defaultSearchDaysBack
	}
	since := s.now().AddDate(0, 0, -daysBack)

	candidates, err := s.foundDogs.GetRecent(ctx, domain.FoundDogStatusActive, since, searchCandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching candidate found dogs: %w", err)
	}

	return map[string]any{
		"searched_for": map[string]string{
			"breed_guess": breedGuess,
			"color":       color,
			"size":        size,
			"markings":    stringArg(args, "markings"),
		},
		"days_back":             daysBack,
		"candidates":            candidates,
		"matching_instructions": foundDogMatchingGuidance,
	}, nil
}
