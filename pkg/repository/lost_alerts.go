package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redpaw/redpaw/pkg/domain"
)

type lostAlertsRepository struct {
	db *sql.DB
}

func NewLostAlertsRepository(db *sql.DB) *lostAlertsRepository {
	return &lostAlertsRepository{db: db}
}

func (l *lostAlertsRepository) GetByOwner(ctx context.Context, ownerID, status string) ([]domain.LostAlert, error) {
	query := `
		SELECT la.id, la.owner_id, la.dog_id, d.name, la.status, la.description,
		       la.last_seen_at, la.last_seen_lat, la.last_seen_lng, la.notified, la.created_at
		FROM lost_alerts la
		JOIN dogs d ON d.id = la.dog_id
		WHERE la.owner_id = $1
	`
	args := []any{ownerID}

	if status != "" {
		query += ` AND la.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY la.created_at DESC`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching lost alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.LostAlert
	for rows.Next() {
		alert, err := scanLostAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *alert)
	}

	return alerts, rows.Err()
}

// GetByID is unscoped: share pages and sighting reports are public surfaces.
func (l *lostAlertsRepository) GetByID(ctx context.Context, alertID string) (*domain.LostAlert, error) {
	const query = `
		SELECT la.id, la.owner_id, la.dog_id, d.name, la.status, la.description,
		       la.last_seen_at, la.last_seen_lat, la.last_seen_lng, la.notified, la.created_at
		FROM lost_alerts la
		JOIN dogs d ON d.id = la.dog_id
		WHERE la.id = $1
	`

	alert, err := scanLostAlert(l.db.QueryRowContext(ctx, query, alertID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching lost alert by id: %w", err)
	}

	return alert, nil
}

// CountSightings is a secondary query joined in application code.
func (l *lostAlertsRepository) CountSightings(ctx context.Context, alertID string) (int, error) {
	const query = `SELECT COUNT(*) FROM sightings WHERE alert_id = $1`

	var count int
	if err := l.db.QueryRowContext(ctx, query, alertID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting sightings: %w", err)
	}

	return count, nil
}

// GetRecentSightings returns the newest community sighting reports for one
// alert. Sightings are public, like the alert itself.
func (l *lostAlertsRepository) GetRecentSightings(ctx context.Context, alertID string, limit int) ([]domain.Sighting, error) {
	const query = `
		SELECT id, alert_id, reporter_id, note, media_url, sighted_at
		FROM sightings
		WHERE alert_id = $1
		ORDER BY sighted_at DESC
		LIMIT $2
	`

	rows, err := l.db.QueryContext(ctx, query, alertID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching sightings: %w", err)
	}
	defer rows.Close()

	var sightings []domain.Sighting
	for rows.Next() {
		var s domain.Sighting
		if err := rows.Scan(&s.ID, &s.AlertID, &s.ReporterID, &s.Note, &s.MediaURL, &s.SightedAt); err != nil {
			return nil, fmt.Errorf("scanning sighting: %w", err)
		}
		sightings = append(sightings, s)
	}

	return sightings, rows.Err()
}

func (l *lostAlertsRepository) GetUnnotified(ctx context.Context) ([]domain.LostAlert, error) {
	const query = `
		SELECT la.id, la.owner_id, la.dog_id, d.name, la.status, la.description,
		       la.last_seen_at, la.last_seen_lat, la.last_seen_lng, la.notified, la.created_at
		FROM lost_alerts la
		JOIN dogs d ON d.id = la.dog_id
		WHERE NOT la.notified AND la.status = $1
		ORDER BY la.created_at
	`

	rows, err := l.db.QueryContext(ctx, query, domain.LostAlertStatusActive)
	if err != nil {
		return nil, fmt.Errorf("fetching unnotified alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.LostAlert
	for rows.Next() {
		alert, err := scanLostAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *alert)
	}

	return alerts, rows.Err()
}

func (l *lostAlertsRepository) MarkNotified(ctx context.Context, alertID string) error {
	const query = `UPDATE lost_alerts SET notified = TRUE WHERE id = $1`

	if _, err := l.db.ExecContext(ctx, query, alertID); err != nil {
		return fmt.Errorf("marking alert notified: %w", err)
	}
	return nil
}

func scanLostAlert(row rowScanner) (*domain.LostAlert, error) {
	var alert domain.LostAlert
	if err := row.Scan(
		&alert.ID, &alert.OwnerID, &alert.DogID, &alert.DogName, &alert.Status,
		&alert.Description, &alert.LastSeenAt, &alert.LastSeenLat, &alert.LastSeenLng,
		&alert.Notified, &alert.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &alert, nil
}
