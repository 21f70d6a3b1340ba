package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redpaw/redpaw/pkg/domain"
)

type healthLogsRepository struct {
	db *sql.DB
}

func NewHealthLogsRepository(db *sql.DB) *healthLogsRepository {
	return &healthLogsRepository{db: db}
}

// GetRecentByDog returns the most recent logs first. The dog must belong to
// ownerID or nothing comes back.
func (h *healthLogsRepository) GetRecentByDog(ctx context.Context, ownerID, dogID string, limit int) ([]domain.HealthLog, error) {
	const query = `
		SELECT hl.id, hl.dog_id, hl.note, hl.logged_at
		FROM health_logs hl
		JOIN dogs d ON d.id = hl.dog_id
		WHERE hl.dog_id = $1 AND d.owner_id = $2
		ORDER BY hl.logged_at DESC
		LIMIT $3
	`

	rows, err := h.db.QueryContext(ctx, query, dogID, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching health logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.HealthLog
	for rows.Next() {
		var log domain.HealthLog
		if err := rows.Scan(&log.ID, &log.DogID, &log.Note, &log.LoggedAt); err != nil {
			return nil, fmt.Errorf("scanning health log: %w", err)
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}
