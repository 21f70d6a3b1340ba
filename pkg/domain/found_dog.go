package domain

import "time"

const (
	FoundDogStatusActive   = "active"
	FoundDogStatusReunited = "reunited"
	FoundDogStatusClosed   = "closed"
)

// FoundDog is a community post about a dog someone found. These are public:
// no ownership gate on reads.
type FoundDog struct {
	ID         string    `json:"id"`
	FinderID   string    `json:"-"`
	BreedGuess string    `json:"breed_guess,omitempty"`
	Color      string    `json:"color,omitempty"`
	Size       string    `json:"size,omitempty"`
	Markings   string    `json:"markings,omitempty"`
	Status     string    `json:"status"`
	Location   string    `json:"location,omitempty"`
	FoundAt    time.Time `json:"found_at"`
	CreatedAt  time.Time `json:"created_at"`

	HasPhotos bool `json:"has_photos"`
}
