package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redpaw/redpaw/pkg/domain"
)

type sitterLogsRepository struct {
	db *sql.DB
}

func NewSitterLogsRepository(db *sql.DB) *sitterLogsRepository {
	return &sitterLogsRepository{db: db}
}

// GetByRequest returns the most recent logs first. The owner-or-sitter gate
// lives with the caller, which already holds the care request row.
func (s *sitterLogsRepository) GetByRequest(ctx context.Context, requestID string, limit int) ([]domain.SitterLog, error) {
	const query = `
		SELECT id, request_id, sitter_id, note, media_url, created_at
		FROM sitter_logs
		WHERE request_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, requestID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching sitter logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.SitterLog
	for rows.Next() {
		var log domain.SitterLog
		if err := rows.Scan(&log.ID, &log.RequestID, &log.SitterID, &log.Note, &log.MediaURL, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning sitter log: %w", err)
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}
