package domain

import "time"

const (
	MedicationStatusActive       = "active"
	MedicationStatusExpiringSoon = "expiring_soon"
	MedicationStatusExpired      = "expired"

	// MedicationExpiryWarningDays is how far ahead a record is flagged
	// as expiring_soon.
	MedicationExpiryWarningDays = 30
)

// MedicationRecord covers both medications and vaccines; Kind tells them
// apart. Status and Countdown are derived at read time, not stored.
type MedicationRecord struct {
	ID        string     `json:"id"`
	DogID     string     `json:"dog_id"`
	DogName   string     `json:"dog_name,omitempty"`
	Name      string     `json:"name"`
	Kind      string     `json:"kind"`
	ExpiresOn *time.Time `json:"expires_on,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	Status    string `json:"status,omitempty"`
	Countdown string `json:"countdown,omitempty"`
}
