package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/redpaw/redpaw/pkg/domain"
)

type MedicationRepository interface {
	GetByOwner(ctx context.Context, ownerID, dogID string) ([]domain.MedicationRecord, error)
}

type getMedicationRecords struct {
	medications MedicationRepository
	now         func() time.Time
}

func NewGetMedicationRecords(medications MedicationRepository) *getMedicationRecords {
	return &getMedicationRecords{
		medications: medications,
		now:         time.Now,
	}
}

func (g *getMedicationRecords) Name() string {
	return "get_medication_records"
}

func (g *getMedicationRecords) Description() string {
	return "Get medication and vaccine records for the user's dogs, with expiry status per record. Optionally filter to a single dog."
}

func (g *getMedicationRecords) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"dog_id": {
				Type:        jsonschema.String,
				Description: "Optional dog id to narrow the records to one dog",
			},
		},
	}
}

func (g *getMedicationRecords) Execute(ctx context.Context, userID string, args map[string]any) (any, error) {
	records, err := g.medications.GetByOwner(ctx, userID, stringArg(args, "dog_id"))
	if err != nil {
		return nil, fmt.Errorf("fetching medication records: %w", err)
	}

	now := g.now()
	var expiringSoon, expired int
	for i := range records {
		deriveMedicationStatus(&records[i], now)
		switch records[i].Status {
		case domain.MedicationStatusExpiringSoon:
			expiringSoon++
		case domain.MedicationStatusExpired:
			expired++
		}
	}

	return map[string]any{
		"records":             records,
		"expiring_soon_count": expiringSoon,
		"expired_count":       expired,
	}, nil
}

// deriveMedicationStatus classifies a record by comparing expires_on to now
// and attaches a human-readable countdown.
func deriveMedicationStatus(rec *domain.MedicationRecord, now time.Time) {
	if rec.ExpiresOn == nil {
		rec.Status = domain.MedicationStatusActive
		rec.Countdown = "no expiry date"
		return
	}

	days := daysUntil(now, *rec.ExpiresOn)
	switch {
	case days < 0:
		rec.Status = domain.MedicationStatusExpired
		rec.Countdown = fmt.Sprintf("expired %s ago", pluralDays(-days))
	case days <= domain.MedicationExpiryWarningDays:
		rec.Status = domain.MedicationStatusExpiringSoon
		if days == 0 {
			rec.Countdown = "expires today"
		} else {
			rec.Countdown = fmt.Sprintf("expires in %s", pluralDays(days))
		}
	default:
		rec.Status = domain.MedicationStatusActive
		rec.Countdown = fmt.Sprintf("expires in %s", pluralDays(days))
	}
}

// daysUntil counts whole calendar days from now to target; negative when
// target is in the past.
func daysUntil(now, target time.Time) int {
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	targetDay := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(targetDay.Sub(nowDay).Hours() / 24)
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
