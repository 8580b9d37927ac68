package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/hall/internal/ports/secondary"
)

// RequestRepository implements secondary.RequestRepository with SQLite.
type RequestRepository struct {
	db *sql.DB
}

// NewRequestRepository creates a new SQLite labor request repository.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

const requestSelectCols = "id, employer_id, book_id, tier, classification, quantity, named_member_id, status, scheduled_for, submitted_at, start_date"

func scanRequest(scanner interface {
	Scan(dest ...any) error
}) (*secondary.RequestRecord, error) {
	var (
		named        sql.NullString
		scheduledFor sql.NullString
		submittedAt  time.Time
		startDate    string
	)

	record := &secondary.RequestRecord{}
	err := scanner.Scan(
		&record.ID, &record.EmployerID, &record.BookID, &record.Tier,
		&record.Classification, &record.Quantity, &named, &record.Status,
		&scheduledFor, &submittedAt, &startDate,
	)
	if err != nil {
		return nil, err
	}

	record.NamedMemberID = named.String
	record.ScheduledFor = parseDate(scheduledFor.String)
	record.SubmittedAt = submittedAt
	record.StartDate = parseDate(startDate)

	return record, nil
}

// Create persists a new labor request.
func (r *RequestRepository) Create(ctx context.Context, req *secondary.RequestRecord) error {
	var named sql.NullString
	if req.NamedMemberID != "" {
		named = sql.NullString{String: req.NamedMemberID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO labor_requests (id, employer_id, book_id, tier, classification, quantity, named_member_id, status, scheduled_for, start_date) VALUES (?, ?, ?, ?, ?, ?, ?, 'open', ?, ?)",
		req.ID, req.EmployerID, req.BookID, req.Tier, req.Classification,
		req.Quantity, named, nullDate(req.ScheduledFor), dateString(req.StartDate),
	)
	if err != nil {
		return fmt.Errorf("failed to create labor request: %w", err)
	}

	return nil
}

// GetByID retrieves a labor request by its ID.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*secondary.RequestRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+requestSelectCols+" FROM labor_requests WHERE id = ?", id)

	record, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("labor request %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get labor request: %w", err)
	}

	return record, nil
}

// ListScheduled retrieves open/partial requests deferred to cycles at or
// before the given date, optionally limited to a set of books.
func (r *RequestRepository) ListScheduled(ctx context.Context, byDate time.Time, bookIDs []string) ([]*secondary.RequestRecord, error) {
	query := "SELECT " + requestSelectCols + " FROM labor_requests WHERE status IN ('open', 'partial') AND scheduled_for IS NOT NULL AND scheduled_for <= ?"
	args := []any{dateString(byDate)}

	if len(bookIDs) > 0 {
		query += " AND book_id IN (?" + strings.Repeat(", ?", len(bookIDs)-1) + ")"
		for _, id := range bookIDs {
			args = append(args, id)
		}
	}

	query += " ORDER BY submitted_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled requests: %w", err)
	}
	defer rows.Close()

	var reqs []*secondary.RequestRecord
	for rows.Next() {
		record, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan labor request: %w", err)
		}
		reqs = append(reqs, record)
	}

	return reqs, rows.Err()
}

// UpdateStatus updates a labor request's status.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE labor_requests SET status = ? WHERE id = ?",
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("labor request %s: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// SetScheduledFor defers a request to the given cycle date.
func (r *RequestRepository) SetScheduledFor(ctx context.Context, id string, date time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE labor_requests SET scheduled_for = ? WHERE id = ?",
		dateString(date), id,
	)
	if err != nil {
		return fmt.Errorf("failed to schedule request: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("labor request %s: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// CountActiveDispatches counts committed, unterminated dispatches for a request.
func (r *RequestRepository) CountActiveDispatches(ctx context.Context, requestID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM dispatches WHERE request_id = ? AND status = 'active'",
		requestID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count dispatches: %w", err)
	}
	return count, nil
}

// GetNextID returns the next available labor request ID.
func (r *RequestRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM labor_requests",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next request ID: %w", err)
	}

	return fmt.Sprintf("REQ-%03d", maxID+1), nil
}

// Ensure RequestRepository implements the interface
var _ secondary.RequestRepository = (*RequestRepository)(nil)
