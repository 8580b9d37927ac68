package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/hall/internal/core/queue"
	"github.com/example/hall/internal/ports/secondary"
)

// RegistrationRepository implements secondary.RegistrationRepository with
// SQLite. Every mutating method runs one transaction carrying the state
// change plus its activity row, and checks the row version so concurrent
// writers lose cleanly with ErrVersionConflict.
type RegistrationRepository struct {
	db *sql.DB
}

// NewRegistrationRepository creates a new SQLite registration repository.
func NewRegistrationRepository(db *sql.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationSelectCols = "id, member_id, book_id, tier, day_serial, tie_break, status, check_marks, version, roll_off_reason, registered_at, updated_at, closed_at"

// scanRegistration scans a registration row into a RegistrationRecord.
func scanRegistration(scanner interface {
	Scan(dest ...any) error
}) (*secondary.RegistrationRecord, error) {
	var (
		rollOffReason sql.NullString
		registeredAt  time.Time
		updatedAt     time.Time
		closedAt      sql.NullTime
	)

	record := &secondary.RegistrationRecord{}
	err := scanner.Scan(
		&record.ID, &record.MemberID, &record.BookID, &record.Tier,
		&record.DaySerial, &record.TieBreak, &record.Status, &record.CheckMarks,
		&record.Version, &rollOffReason, &registeredAt, &updatedAt, &closedAt,
	)
	if err != nil {
		return nil, err
	}

	record.RollOffReason = rollOffReason.String
	record.RegisteredAt = registeredAt
	record.UpdatedAt = updatedAt
	if closedAt.Valid {
		record.ClosedAt = closedAt.Time
	}

	return record, nil
}

// Create inserts a registration. The tie-break is allocated inside the
// transaction as MAX(tie_break)+1 over the same (book, day), so same-day
// registrations keep their real-time order.
func (r *RegistrationRepository) Create(ctx context.Context, reg *secondary.RegistrationRecord, act *secondary.ActivityRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxTie sql.NullInt64
	err = tx.QueryRowContext(ctx,
		"SELECT MAX(tie_break) FROM registrations WHERE book_id = ? AND day_serial = ?",
		reg.BookID, reg.DaySerial,
	).Scan(&maxTie)
	if err != nil {
		return fmt.Errorf("failed to allocate tie-break: %w", err)
	}
	reg.TieBreak = maxTie.Int64 + 1
	reg.Version = 1

	_, err = tx.ExecContext(ctx,
		"INSERT INTO registrations (id, member_id, book_id, tier, day_serial, tie_break, status, check_marks, version) VALUES (?, ?, ?, ?, ?, ?, ?, 0, 1)",
		reg.ID, reg.MemberID, reg.BookID, reg.Tier, reg.DaySerial, reg.TieBreak, queue.StatusActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}

	if err := appendActivity(ctx, tx, act); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}

	reg.Status = queue.StatusActive
	return nil
}

// GetByID retrieves a registration by its ID.
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*secondary.RegistrationRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+registrationSelectCols+" FROM registrations WHERE id = ?",
		id,
	)

	record, err := scanRegistration(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("registration %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	return record, nil
}

// HasLive reports whether a non-terminal registration exists for the
// (member, book, tier).
func (r *RegistrationRepository) HasLive(ctx context.Context, memberID, bookID string, tier int) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM registrations WHERE member_id = ? AND book_id = ? AND tier = ? AND status IN ('active', 'dispatched', 'suspended')",
		memberID, bookID, tier,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check live registration: %w", err)
	}
	return count > 0, nil
}

// ListActiveOrdered returns the active queue for a book tier in strict
// dispatch order. Equal sort keys fall back to the lower ID for determinism.
func (r *RegistrationRepository) ListActiveOrdered(ctx context.Context, bookID string, tier int) ([]*secondary.RegistrationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+registrationSelectCols+" FROM registrations WHERE book_id = ? AND tier = ? AND status = 'active' ORDER BY day_serial ASC, tie_break ASC, id ASC",
		bookID, tier,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var regs []*secondary.RegistrationRecord
	for rows.Next() {
		record, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, record)
	}

	return regs, rows.Err()
}

// ListLiveByMember returns the member's non-terminal registrations across
// all books.
func (r *RegistrationRepository) ListLiveByMember(ctx context.Context, memberID string) ([]*secondary.RegistrationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+registrationSelectCols+" FROM registrations WHERE member_id = ? AND status IN ('active', 'dispatched', 'suspended') ORDER BY id ASC",
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list member registrations: %w", err)
	}
	defer rows.Close()

	var regs []*secondary.RegistrationRecord
	for rows.Next() {
		record, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, record)
	}

	return regs, rows.Err()
}

// ReSign resets the sort key to the given day, re-allocating the tie-break
// within the transaction.
func (r *RegistrationRepository) ReSign(ctx context.Context, id string, version int64, daySerial int64, act *secondary.ActivityRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := appendActivity(ctx, tx, act); err != nil {
		return err
	}

	var reg struct{ bookID string }
	err = tx.QueryRowContext(ctx, "SELECT book_id FROM registrations WHERE id = ?", id).Scan(&reg.bookID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("registration %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load registration: %w", err)
	}

	var maxTie sql.NullInt64
	err = tx.QueryRowContext(ctx,
		"SELECT MAX(tie_break) FROM registrations WHERE book_id = ? AND day_serial = ?",
		reg.bookID, daySerial,
	).Scan(&maxTie)
	if err != nil {
		return fmt.Errorf("failed to allocate tie-break: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		"UPDATE registrations SET day_serial = ?, tie_break = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND version = ?",
		daySerial, maxTie.Int64+1, id, version,
	)
	if err != nil {
		return fmt.Errorf("failed to re-sign registration: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("re-sign %s: %w", id, secondary.ErrVersionConflict)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit re-sign: %w", err)
	}
	return nil
}

// UpdateStatus transitions the registration status under a version check.
// Terminal transitions record the reason and close timestamp; the row is
// soft-closed, never deleted.
func (r *RegistrationRepository) UpdateStatus(ctx context.Context, id string, version int64, status, rollOffReason string, act *secondary.ActivityRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := appendActivity(ctx, tx, act); err != nil {
		return err
	}

	query := "UPDATE registrations SET status = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP"
	args := []any{status}

	if queue.IsTerminal(status) {
		query += ", closed_at = CURRENT_TIMESTAMP"
	}
	if rollOffReason != "" {
		query += ", roll_off_reason = ?"
		args = append(args, rollOffReason)
	}

	query += " WHERE id = ? AND version = ?"
	args = append(args, id, version)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("status change %s: %w", id, secondary.ErrVersionConflict)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status change: %w", err)
	}
	return nil
}

// SetCheckMarks updates the check-mark count under a version check.
func (r *RegistrationRepository) SetCheckMarks(ctx context.Context, id string, version int64, count int, act *secondary.ActivityRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := appendActivity(ctx, tx, act); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx,
		"UPDATE registrations SET check_marks = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND version = ?",
		count, id, version,
	)
	if err != nil {
		return fmt.Errorf("failed to set check marks: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("check mark %s: %w", id, secondary.ErrVersionConflict)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit check mark: %w", err)
	}
	return nil
}

// GetNextID returns the next available registration ID.
func (r *RegistrationRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM registrations",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next registration ID: %w", err)
	}

	return fmt.Sprintf("REG-%03d", maxID+1), nil
}

// Ensure RegistrationRepository implements the interface
var _ secondary.RegistrationRepository = (*RegistrationRepository)(nil)
