package domain

import "time"

type Dog struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"-"`
	Name      string     `json:"name"`
	Breed     string     `json:"breed,omitempty"`
	Color     string     `json:"color,omitempty"`
	Size      string     `json:"size,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	PhotoURL  string     `json:"photo_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type HealthLog struct {
	ID       string    `json:"id"`
	DogID    string    `json:"dog_id"`
	Note     string    `json:"note"`
	LoggedAt time.Time `json:"logged_at"`
}
