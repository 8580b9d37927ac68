package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/hall/internal/ports/secondary"
)

// ActivityRepository implements secondary.ActivityRepository with SQLite.
// Append-only: there is no update or delete method, by design.
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new SQLite activity repository.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append writes an activity row plus its audit-log mirror outside any
// larger state change (eligibility skips, informational events).
func (r *ActivityRepository) Append(ctx context.Context, act *secondary.ActivityRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := appendActivity(ctx, tx, act); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit activity: %w", err)
	}
	return nil
}

// List retrieves activity rows matching the given filters, oldest first.
func (r *ActivityRepository) List(ctx context.Context, filters secondary.ActivityFilters) ([]*secondary.ActivityRecord, error) {
	query := "SELECT id, registration_id, member_id, book_id, event, detail, actor, occurred_at FROM registration_activity WHERE 1=1"
	args := []any{}

	if filters.MemberID != "" {
		query += " AND member_id = ?"
		args = append(args, filters.MemberID)
	}

	if filters.BookID != "" {
		query += " AND book_id = ?"
		args = append(args, filters.BookID)
	}

	if !filters.From.IsZero() {
		query += " AND occurred_at >= ?"
		args = append(args, filters.From)
	}

	if !filters.To.IsZero() {
		query += " AND occurred_at <= ?"
		args = append(args, filters.To)
	}

	query += " ORDER BY occurred_at ASC, id ASC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var acts []*secondary.ActivityRecord
	for rows.Next() {
		var (
			regID, bookID, detail, actor sql.NullString
			occurredAt                   time.Time
		)
		record := &secondary.ActivityRecord{}
		err := rows.Scan(&record.ID, &regID, &record.MemberID, &bookID, &record.Event, &detail, &actor, &occurredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		record.RegistrationID = regID.String
		record.BookID = bookID.String
		record.Detail = detail.String
		record.Actor = actor.String
		record.OccurredAt = occurredAt
		acts = append(acts, record)
	}

	return acts, rows.Err()
}

// Ensure ActivityRepository implements the interface
var _ secondary.ActivityRepository = (*ActivityRepository)(nil)
