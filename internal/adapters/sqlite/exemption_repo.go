package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/hall/internal/ports/secondary"
)

// ExemptionRepository implements secondary.ExemptionRepository with SQLite.
type ExemptionRepository struct {
	db *sql.DB
}

// NewExemptionRepository creates a new SQLite exemption repository.
func NewExemptionRepository(db *sql.DB) *ExemptionRepository {
	return &ExemptionRepository{db: db}
}

// Create persists a new exemption.
func (r *ExemptionRepository) Create(ctx context.Context, e *secondary.ExemptionRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO exemptions (id, member_id, book_id, reason, starts_on, ends_on, revoked) VALUES (?, ?, ?, ?, ?, ?, 0)",
		e.ID, e.MemberID, e.BookID, e.Reason, dateString(e.StartsOn), dateString(e.EndsOn),
	)
	if err != nil {
		return fmt.Errorf("failed to create exemption: %w", err)
	}

	return nil
}

// Revoke marks an exemption revoked.
func (r *ExemptionRepository) Revoke(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE exemptions SET revoked = 1 WHERE id = ? AND revoked = 0",
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke exemption: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("exemption %s: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// ListActive retrieves unrevoked exemptions covering the given date.
// bookID narrows to one book when non-empty.
func (r *ExemptionRepository) ListActive(ctx context.Context, memberID, bookID string, on time.Time) ([]*secondary.ExemptionRecord, error) {
	query := "SELECT id, member_id, book_id, reason, starts_on, ends_on, revoked FROM exemptions WHERE member_id = ? AND revoked = 0 AND starts_on <= ? AND ends_on >= ?"
	args := []any{memberID, dateString(on), dateString(on)}

	if bookID != "" {
		query += " AND book_id = ?"
		args = append(args, bookID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exemptions: %w", err)
	}
	defer rows.Close()

	var exs []*secondary.ExemptionRecord
	for rows.Next() {
		var (
			startsOn, endsOn string
			revoked          int
		)
		record := &secondary.ExemptionRecord{}
		err := rows.Scan(&record.ID, &record.MemberID, &record.BookID, &record.Reason, &startsOn, &endsOn, &revoked)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exemption: %w", err)
		}
		record.StartsOn = parseDate(startsOn)
		record.EndsOn = parseDate(endsOn)
		record.Revoked = revoked != 0
		exs = append(exs, record)
	}

	return exs, rows.Err()
}

// GetNextID returns the next available exemption ID.
func (r *ExemptionRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM exemptions",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next exemption ID: %w", err)
	}

	return fmt.Sprintf("EXM-%03d", maxID+1), nil
}

// Ensure ExemptionRepository implements the interface
var _ secondary.ExemptionRepository = (*ExemptionRepository)(nil)
