package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/hall/internal/ports/secondary"
)

// SuspensionRepository implements secondary.SuspensionRepository with SQLite.
type SuspensionRepository struct {
	db *sql.DB
}

// NewSuspensionRepository creates a new SQLite bid suspension repository.
func NewSuspensionRepository(db *sql.DB) *SuspensionRepository {
	return &SuspensionRepository{db: db}
}

// Create persists a new bidding suspension.
func (r *SuspensionRepository) Create(ctx context.Context, s *secondary.SuspensionRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO bid_suspensions (id, member_id, reason, starts_on, ends_on) VALUES (?, ?, ?, ?, ?)",
		s.ID, s.MemberID, s.Reason, dateString(s.StartsOn), dateString(s.EndsOn),
	)
	if err != nil {
		return fmt.Errorf("failed to create bid suspension: %w", err)
	}

	return nil
}

// ActiveUntil returns the latest end date of any suspension covering the
// given date, or the zero time when the member may bid.
func (r *SuspensionRepository) ActiveUntil(ctx context.Context, memberID string, on time.Time) (time.Time, error) {
	var until sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT MAX(ends_on) FROM bid_suspensions WHERE member_id = ? AND starts_on <= ? AND ends_on > ?",
		memberID, dateString(on), dateString(on),
	).Scan(&until)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to check bid suspension: %w", err)
	}

	if !until.Valid {
		return time.Time{}, nil
	}
	return parseDate(until.String), nil
}

// GetNextID returns the next available suspension ID.
func (r *SuspensionRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM bid_suspensions",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next suspension ID: %w", err)
	}

	return fmt.Sprintf("SUS-%03d", maxID+1), nil
}

// Ensure SuspensionRepository implements the interface
var _ secondary.SuspensionRepository = (*SuspensionRepository)(nil)
