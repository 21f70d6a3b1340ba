package domain

import "time"

type SitterLog struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	SitterID  string    `json:"-"`
	Note      string    `json:"note"`
	MediaURL  string    `json:"media_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
