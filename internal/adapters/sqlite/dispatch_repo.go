package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/hall/internal/core/queue"
	"github.com/example/hall/internal/ports/secondary"
)

// DispatchRepository implements secondary.DispatchRepository with SQLite.
type DispatchRepository struct {
	db *sql.DB
}

// NewDispatchRepository creates a new SQLite dispatch repository.
func NewDispatchRepository(db *sql.DB) *DispatchRepository {
	return &DispatchRepository{db: db}
}

const dispatchSelectCols = "id, registration_id, member_id, request_id, employer_id, start_date, expected_end, actual_end, short_call, termination_reason, status, created_at"

func scanDispatch(scanner interface {
	Scan(dest ...any) error
}) (*secondary.DispatchRecord, error) {
	var (
		startDate   string
		expectedEnd sql.NullString
		actualEnd   sql.NullString
		shortCall   int
		reason      sql.NullString
		createdAt   time.Time
	)

	record := &secondary.DispatchRecord{}
	err := scanner.Scan(
		&record.ID, &record.RegistrationID, &record.MemberID, &record.RequestID,
		&record.EmployerID, &startDate, &expectedEnd, &actualEnd,
		&shortCall, &reason, &record.Status, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.StartDate = parseDate(startDate)
	record.ExpectedEnd = parseDate(expectedEnd.String)
	record.ActualEnd = parseDate(actualEnd.String)
	record.ShortCall = shortCall != 0
	record.TerminationReason = reason.String
	record.CreatedAt = createdAt

	return record, nil
}

// Commit atomically dispatches a candidate: version-checked status flip,
// dispatch insert, and activity row - all in one transaction. The activity
// write precedes the state change so no commit is ever unaudited. A lost
// version check surfaces as ErrVersionConflict and rolls everything back;
// the assignor then moves to the next candidate.
func (r *DispatchRepository) Commit(ctx context.Context, reg *secondary.RegistrationRecord, d *secondary.DispatchRecord, act *secondary.ActivityRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := appendActivity(ctx, tx, act); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx,
		"UPDATE registrations SET status = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND version = ? AND status = ?",
		queue.StatusDispatched, reg.ID, reg.Version, queue.StatusActive,
	)
	if err != nil {
		return fmt.Errorf("failed to mark registration dispatched: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("dispatch %s: %w", reg.ID, secondary.ErrVersionConflict)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO dispatches (id, registration_id, member_id, request_id, employer_id, start_date, expected_end, status) VALUES (?, ?, ?, ?, ?, ?, ?, 'active')",
		d.ID, d.RegistrationID, d.MemberID, d.RequestID, d.EmployerID,
		dateString(d.StartDate), nullDate(d.ExpectedEnd),
	)
	if err != nil {
		return fmt.Errorf("failed to create dispatch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dispatch: %w", err)
	}

	return nil
}

// GetByID retrieves a dispatch by its ID.
func (r *DispatchRepository) GetByID(ctx context.Context, id string) (*secondary.DispatchRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+dispatchSelectCols+" FROM dispatches WHERE id = ?", id)

	record, err := scanDispatch(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("dispatch %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dispatch: %w", err)
	}

	return record, nil
}

// Terminate closes a dispatch. Terminated dispatches with penalty or
// financial consequences are immutable afterwards; re-termination fails.
func (r *DispatchRepository) Terminate(ctx context.Context, id, reason string, actualEnd time.Time, shortCall bool) error {
	sc := 0
	if shortCall {
		sc = 1
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE dispatches SET status = 'terminated', termination_reason = ?, actual_end = ?, short_call = ? WHERE id = ? AND status = 'active'",
		reason, dateString(actualEnd), sc, id,
	)
	if err != nil {
		return fmt.Errorf("failed to terminate dispatch: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("dispatch %s is not active: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// ListByRequest retrieves the dispatches committed against a request.
func (r *DispatchRepository) ListByRequest(ctx context.Context, requestID string) ([]*secondary.DispatchRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+dispatchSelectCols+" FROM dispatches WHERE request_id = ? ORDER BY id ASC",
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list dispatches: %w", err)
	}
	defer rows.Close()

	var dispatches []*secondary.DispatchRecord
	for rows.Next() {
		record, err := scanDispatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dispatch: %w", err)
		}
		dispatches = append(dispatches, record)
	}

	return dispatches, rows.Err()
}

// GetNextID returns the next available dispatch ID.
func (r *DispatchRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM dispatches",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next dispatch ID: %w", err)
	}

	return fmt.Sprintf("DSP-%03d", maxID+1), nil
}

// Ensure DispatchRepository implements the interface
var _ secondary.DispatchRepository = (*DispatchRepository)(nil)
