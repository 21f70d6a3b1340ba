package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redpaw/redpaw/pkg/domain"
)

type SessionRepository interface {
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
}

type authenticator struct {
	sessions SessionRepository
	now      func() time.Time
}

func NewAuthenticator(sessions SessionRepository) *authenticator {
	return &authenticator{
		sessions: sessions,
		now:      time.Now,
	}
}

// Authenticate exchanges a bearer token for a user identity. An unknown or
// expired token yields domain.ErrNotFound; callers treat that as "no
// identity", not as a request failure.
func (a *authenticator) Authenticate(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrNotFound
	}

	session, err := a.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("fetching session: %w", err)
	}

	if session.Expired(a.now()) {
		return "", domain.ErrNotFound
	}

	return session.UserID, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
