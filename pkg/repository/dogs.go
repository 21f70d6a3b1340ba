package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redpaw/redpaw/pkg/domain"
)

type dogsRepository struct {
	db *sql.DB
}

func NewDogsRepository(db *sql.DB) *dogsRepository {
	return &dogsRepository{db: db}
}

func (d *dogsRepository) GetByOwner(ctx context.Context, ownerID string) ([]domain.Dog, error) {
	const query = `
		SELECT id, owner_id, name, breed, color, size, birth_date, photo_url, created_at
		FROM dogs
		WHERE owner_id = $1
		ORDER BY created_at
	`

	rows, err := d.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetching dogs by owner: %w", err)
	}
	defer rows.Close()

	var dogs []domain.Dog
	for rows.Next() {
		dog, err := scanDog(rows)
		if err != nil {
			return nil, err
		}
		dogs = append(dogs, *dog)
	}

	return dogs, rows.Err()
}

// GetByID returns the dog only when it belongs to ownerID; otherwise
// ErrNotFound. Ownership scoping is the access-control boundary.
func (d *dogsRepository) GetByID(ctx context.Context, ownerID, dogID string) (*domain.Dog, error) {
	const query = `
		SELECT id, owner_id, name, breed, color, size, birth_date, photo_url, created_at
		FROM dogs
		WHERE id = $1 AND owner_id = $2
	`

	row := d.db.QueryRowContext(ctx, query, dogID, ownerID)
	dog, err := scanDog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching dog by id: %w", err)
	}

	return dog, nil
}

func (d *dogsRepository) UpdatePhotoURL(ctx context.Context, ownerID, dogID, photoURL string) error {
	const query = `
		UPDATE dogs
		SET photo_url = $3
		WHERE id = $1 AND owner_id = $2
	`

	res, err := d.db.ExecContext(ctx, query, dogID, ownerID, photoURL)
	if err != nil {
		return fmt.Errorf("updating dog photo: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDog(row rowScanner) (*domain.Dog, error) {
	var dog domain.Dog
	var birthDate sql.NullTime

	if err := row.Scan(
		&dog.ID, &dog.OwnerID, &dog.Name, &dog.Breed, &dog.Color, &dog.Size,
		&birthDate, &dog.PhotoURL, &dog.CreatedAt,
	); err != nil {
		return nil, err
	}

	if birthDate.Valid {
		dog.BirthDate = &birthDate.Time
	}
	return &dog, nil
}
