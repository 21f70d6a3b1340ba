package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redpaw/redpaw/pkg/domain"
)

type sessionsRepository struct {
	db *sql.DB
}

func NewSessionsRepository(db *sql.DB) *sessionsRepository {
	return &sessionsRepository{db: db}
}

func (s *sessionsRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	const query = `
		SELECT token, user_id, expires_at
		FROM sessions
		WHERE token = $1
	`

	var session domain.Session
	var expiresAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, token).
		Scan(&session.Token, &session.UserID, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching session by token: %w", err)
	}

	if expiresAt.Valid {
		session.ExpiresAt = expiresAt.Time
	}

	return &session, nil
}
