package domain

import "time"

const (
	CareRequestStatusOpen      = "open"
	CareRequestStatusAssigned  = "assigned"
	CareRequestStatusCompleted = "completed"
	CareRequestStatusCancelled = "cancelled"

	CareRoleOwner  = "owner"
	CareRoleSitter = "sitter"
)

type CareRequest struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	SitterID  string    `json:"-"`
	DogID     string    `json:"dog_id"`
	DogName   string    `json:"dog_name,omitempty"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// YourRole annotates which side of the request the caller is on.
	YourRole string `json:"your_role,omitempty"`
}
