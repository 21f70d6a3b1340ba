package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redpaw/redpaw/pkg/domain"
)

type foundDogsRepository struct {
	db *sql.DB
}

func NewFoundDogsRepository(db *sql.DB) *foundDogsRepository {
	return &foundDogsRepository{db: db}
}

// GetRecent lists community found-dog posts. These are public, so there is
// no ownership scoping. since limits the window; zero means no limit.
func (f *foundDogsRepository) GetRecent(ctx context.Context, status string, since time.Time, limit int) ([]domain.FoundDog, error) {
	query := `
		SELECT fd.id, fd.finder_id, fd.breed_guess, fd.color, fd.size, fd.markings,
		       fd.status, fd.location, fd.found_at, fd.created_at,
		       EXISTS (SELECT 1 FROM found_dog_photos p WHERE p.found_dog_id = fd.id)
		FROM found_dogs fd
		WHERE 1=1
	`
	var args []any

	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND fd.status = $%d`, len(args))
	}
	if !since.IsZero() {
		args = append(args, since)
		query += fmt.Sprintf(` AND fd.created_at >= $%d`, len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY fd.created_at DESC LIMIT $%d`, len(args))

	rows, err := f.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching found dogs: %w", err)
	}
	defer rows.Close()

	var dogs []domain.FoundDog
	for rows.Next() {
		var fd domain.FoundDog
		if err := rows.Scan(
			&fd.ID, &fd.FinderID, &fd.BreedGuess, &fd.Color, &fd.Size, &fd.Markings,
			&fd.Status, &fd.Location, &fd.FoundAt, &fd.CreatedAt, &fd.HasPhotos,
		); err != nil {
			return nil, fmt.Errorf("scanning found dog: %w", err)
		}
		dogs = append(dogs, fd)
	}

	return dogs, rows.Err()
}
