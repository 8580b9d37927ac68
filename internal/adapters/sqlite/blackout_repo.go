package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/hall/internal/ports/secondary"
)

// BlackoutRepository implements secondary.BlackoutRepository with SQLite.
type BlackoutRepository struct {
	db *sql.DB
}

// NewBlackoutRepository creates a new SQLite blackout repository.
func NewBlackoutRepository(db *sql.DB) *BlackoutRepository {
	return &BlackoutRepository{db: db}
}

// Create persists a new blackout period.
func (r *BlackoutRepository) Create(ctx context.Context, b *secondary.BlackoutRecord) error {
	var employer sql.NullString
	if b.EmployerID != "" {
		employer = sql.NullString{String: b.EmployerID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO blackouts (id, member_id, employer_id, reason, starts_on, ends_on) VALUES (?, ?, ?, ?, ?, ?)",
		b.ID, b.MemberID, employer, b.Reason, dateString(b.StartsOn), dateString(b.EndsOn),
	)
	if err != nil {
		return fmt.Errorf("failed to create blackout: %w", err)
	}

	return nil
}

// ListActive retrieves blackouts covering the given date for a member.
func (r *BlackoutRepository) ListActive(ctx context.Context, memberID string, on time.Time) ([]*secondary.BlackoutRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, member_id, employer_id, reason, starts_on, ends_on FROM blackouts WHERE member_id = ? AND starts_on <= ? AND ends_on >= ?",
		memberID, dateString(on), dateString(on),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list blackouts: %w", err)
	}
	defer rows.Close()

	var outs []*secondary.BlackoutRecord
	for rows.Next() {
		var (
			employer         sql.NullString
			startsOn, endsOn string
		)
		record := &secondary.BlackoutRecord{}
		err := rows.Scan(&record.ID, &record.MemberID, &employer, &record.Reason, &startsOn, &endsOn)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blackout: %w", err)
		}
		record.EmployerID = employer.String
		record.StartsOn = parseDate(startsOn)
		record.EndsOn = parseDate(endsOn)
		outs = append(outs, record)
	}

	return outs, rows.Err()
}

// GetNextID returns the next available blackout ID.
func (r *BlackoutRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM blackouts",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next blackout ID: %w", err)
	}

	return fmt.Sprintf("BLK-%03d", maxID+1), nil
}

// Ensure BlackoutRepository implements the interface
var _ secondary.BlackoutRepository = (*BlackoutRepository)(nil)
