package domain

import "time"

// Session binds a bearer token to a user identity. Every tool handler and
// repository query is scoped to the session's user; that scoping is the
// access-control boundary.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
