package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/hall/internal/ports/secondary"
)

// BookRepository implements secondary.BookRepository with SQLite.
type BookRepository struct {
	db *sql.DB
}

// NewBookRepository creates a new SQLite book repository.
func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

const bookSelectCols = "id, name, classification, agreement_type, tier_count, processing_start, book_group, online_bidding"

func scanBook(scanner interface {
	Scan(dest ...any) error
}) (*secondary.BookRecord, error) {
	record := &secondary.BookRecord{}
	var bidding int
	err := scanner.Scan(
		&record.ID, &record.Name, &record.Classification, &record.AgreementType,
		&record.TierCount, &record.ProcessingStart, &record.Group, &bidding,
	)
	if err != nil {
		return nil, err
	}
	record.OnlineBidding = bidding != 0
	return record, nil
}

// GetByID retrieves a book by its ID.
func (r *BookRepository) GetByID(ctx context.Context, id string) (*secondary.BookRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+bookSelectCols+" FROM books WHERE id = ?", id)

	record, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("book %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return record, nil
}

// List retrieves all books.
func (r *BookRepository) List(ctx context.Context) ([]*secondary.BookRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+bookSelectCols+" FROM books ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []*secondary.BookRecord
	for rows.Next() {
		record, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, record)
	}

	return books, rows.Err()
}

// ListByGroup retrieves the books of one processing group in ID order.
func (r *BookRepository) ListByGroup(ctx context.Context, group string) ([]*secondary.BookRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+bookSelectCols+" FROM books WHERE book_group = ? ORDER BY processing_start ASC, id ASC", group)
	if err != nil {
		return nil, fmt.Errorf("failed to list books by group: %w", err)
	}
	defer rows.Close()

	var books []*secondary.BookRecord
	for rows.Next() {
		record, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, record)
	}

	return books, rows.Err()
}

// Ensure BookRepository implements the interface
var _ secondary.BookRepository = (*BookRepository)(nil)
