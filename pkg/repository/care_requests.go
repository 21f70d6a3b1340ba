package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redpaw/redpaw/pkg/domain"
)

type careRequestsRepository struct {
	db *sql.DB
}

func NewCareRequestsRepository(db *sql.DB) *careRequestsRepository {
	return &careRequestsRepository{db: db}
}

// GetForUser returns requests where the user is the owner, the assigned
// sitter, or either, newest first. status narrows the result when set.
func (c *careRequestsRepository) GetForUser(ctx context.Context, userID, status, role string) ([]domain.CareRequest, error) {
	query := `
		SELECT cr.id, cr.owner_id, COALESCE(cr.sitter_id, ''), cr.dog_id, d.name,
		       cr.status, cr.start_date, cr.end_date, cr.notes, cr.created_at
		FROM care_requests cr
		JOIN dogs d ON d.id = cr.dog_id
	`
	args := []any{userID}

	switch role {
	case domain.CareRoleOwner:
		query += ` WHERE cr.owner_id = $1`
	case domain.CareRoleSitter:
		query += ` WHERE cr.sitter_id = $1`
	default:
		query += ` WHERE (cr.owner_id = $1 OR cr.sitter_id = $1)`
	}

	if status != "" {
		query += ` AND cr.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY cr.created_at DESC`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching care requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.CareRequest
	for rows.Next() {
		req, err := scanCareRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}

	return requests, rows.Err()
}

// GetByID is unscoped; callers gate access on OwnerID/SitterID themselves.
func (c *careRequestsRepository) GetByID(ctx context.Context, requestID string) (*domain.CareRequest, error) {
	const query = `
		SELECT cr.id, cr.owner_id, COALESCE(cr.sitter_id, ''), cr.dog_id, d.name,
		       cr.status, cr.start_date, cr.end_date, cr.notes, cr.created_at
		FROM care_requests cr
		JOIN dogs d ON d.id = cr.dog_id
		WHERE cr.id = $1
	`

	req, err := scanCareRequest(c.db.QueryRowContext(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching care request by id: %w", err)
	}

	return req, nil
}

func scanCareRequest(row rowScanner) (*domain.CareRequest, error) {
	var req domain.CareRequest
	if err := row.Scan(
		&req.ID, &req.OwnerID, &req.SitterID, &req.DogID, &req.DogName,
		&req.Status, &req.StartDate, &req.EndDate, &req.Notes, &req.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}
