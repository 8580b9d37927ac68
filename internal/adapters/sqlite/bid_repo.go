package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/hall/internal/core/bid"
	"github.com/example/hall/internal/ports/secondary"
)

// BidRepository implements secondary.BidRepository with SQLite.
type BidRepository struct {
	db *sql.DB
}

// NewBidRepository creates a new SQLite bid repository.
func NewBidRepository(db *sql.DB) *BidRepository {
	return &BidRepository{db: db}
}

const bidSelectCols = "id, member_id, request_id, outcome, submitted_at, decided_at"

func scanBid(scanner interface {
	Scan(dest ...any) error
}) (*secondary.BidRecord, error) {
	var (
		submittedAt time.Time
		decidedAt   sql.NullTime
	)

	record := &secondary.BidRecord{}
	err := scanner.Scan(
		&record.ID, &record.MemberID, &record.RequestID, &record.Outcome,
		&submittedAt, &decidedAt,
	)
	if err != nil {
		return nil, err
	}

	record.SubmittedAt = submittedAt
	if decidedAt.Valid {
		record.DecidedAt = decidedAt.Time
	}

	return record, nil
}

// Create persists a new bid.
func (r *BidRepository) Create(ctx context.Context, b *secondary.BidRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO bids (id, member_id, request_id, outcome, submitted_at) VALUES (?, ?, ?, 'pending', ?)",
		b.ID, b.MemberID, b.RequestID, b.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bid: %w", err)
	}

	return nil
}

// GetByID retrieves a bid by its ID.
func (r *BidRepository) GetByID(ctx context.Context, id string) (*secondary.BidRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+bidSelectCols+" FROM bids WHERE id = ?", id)

	record, err := scanBid(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bid %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bid: %w", err)
	}

	return record, nil
}

// RecordOutcome decides a pending bid. Decided bids are immutable: the
// outcome column only moves off 'pending' once.
func (r *BidRepository) RecordOutcome(ctx context.Context, id, outcome string, decidedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE bids SET outcome = ?, decided_at = ? WHERE id = ? AND outcome = ?",
		outcome, decidedAt, id, bid.OutcomePending,
	)
	if err != nil {
		return fmt.Errorf("failed to record bid outcome: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("bid %s is not pending: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// CountRejectionsSince counts a member's rejected bids decided on or after
// the window start (the rolling 12-month suspension counter).
func (r *BidRepository) CountRejectionsSince(ctx context.Context, memberID string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bids WHERE member_id = ? AND outcome = 'rejected' AND decided_at >= ?",
		memberID, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rejections: %w", err)
	}
	return count, nil
}

// ListByRequest retrieves the bids placed against a request.
func (r *BidRepository) ListByRequest(ctx context.Context, requestID string) ([]*secondary.BidRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bidSelectCols+" FROM bids WHERE request_id = ? ORDER BY submitted_at ASC, id ASC",
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	defer rows.Close()

	var bids []*secondary.BidRecord
	for rows.Next() {
		record, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bids = append(bids, record)
	}

	return bids, rows.Err()
}

// GetNextID returns the next available bid ID.
func (r *BidRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM bids",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next bid ID: %w", err)
	}

	return fmt.Sprintf("BID-%03d", maxID+1), nil
}

// Ensure BidRepository implements the interface
var _ secondary.BidRepository = (*BidRepository)(nil)
