package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redpaw/redpaw/pkg/domain"
)

type medicationRecordsRepository struct {
	db *sql.DB
}

func NewMedicationRecordsRepository(db *sql.DB) *medicationRecordsRepository {
	return &medicationRecordsRepository{db: db}
}

// GetByOwner returns medication and vaccine records across all of the
// owner's dogs, optionally narrowed to one dog.
func (m *medicationRecordsRepository) GetByOwner(ctx context.Context, ownerID, dogID string) ([]domain.MedicationRecord, error) {
	query := `
		SELECT mr.id, mr.dog_id, d.name, mr.name, mr.kind, mr.expires_on, mr.notes, mr.created_at
		FROM medication_records mr
		JOIN dogs d ON d.id = mr.dog_id
		WHERE d.owner_id = $1
	`
	args := []any{ownerID}

	if dogID != "" {
		query += ` AND mr.dog_id = $2`
		args = append(args, dogID)
	}
	query += ` ORDER BY mr.expires_on NULLS LAST, mr.created_at`

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching medication records: %w", err)
	}
	defer rows.Close()

	var records []domain.MedicationRecord
	for rows.Next() {
		var rec domain.MedicationRecord
		var expiresOn sql.NullTime

		if err := rows.Scan(
			&rec.ID, &rec.DogID, &rec.DogName, &rec.Name, &rec.Kind,
			&expiresOn, &rec.Notes, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning medication record: %w", err)
		}

		if expiresOn.Valid {
			rec.ExpiresOn = &expiresOn.Time
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
