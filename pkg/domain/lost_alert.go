package domain

import "time"

const (
	LostAlertStatusActive = "active"
	LostAlertStatusFound  = "found"
	LostAlertStatusClosed = "closed"
)

type LostAlert struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"-"`
	DogID       string    `json:"dog_id"`
	DogName     string    `json:"dog_name,omitempty"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	LastSeenAt  time.Time `json:"last_seen_at"`
	LastSeenLat float64   `json:"last_seen_lat,omitempty"`
	LastSeenLng float64   `json:"last_seen_lng,omitempty"`
	Notified    bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`

	SightingCount int `json:"sighting_count"`
}

type Sighting struct {
	ID         string    `json:"id"`
	AlertID    string    `json:"alert_id"`
	ReporterID string    `json:"-"`
	Note       string    `json:"note,omitempty"`
	MediaURL   string    `json:"media_url,omitempty"`
	SightedAt  time.Time `json:"sighted_at"`
}
