package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/hall/internal/ports/secondary"
)

// Directory implements the read-only member and employer identity lookups.
// Identity management proper lives outside the dispatch core; this adapter
// only reads the mirrored directory tables.
type Directory struct {
	db *sql.DB
}

// NewDirectory creates a new SQLite directory adapter.
func NewDirectory(db *sql.DB) *Directory {
	return &Directory{db: db}
}

// GetMember retrieves a member by ID.
func (d *Directory) GetMember(ctx context.Context, id string) (*secondary.MemberRecord, error) {
	record := &secondary.MemberRecord{}
	err := d.db.QueryRowContext(ctx,
		"SELECT id, name, classification, status FROM members WHERE id = ?",
		id,
	).Scan(&record.ID, &record.Name, &record.Classification, &record.Status)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("member %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return record, nil
}

// GetEmployer retrieves an employer by ID.
func (d *Directory) GetEmployer(ctx context.Context, id string) (*secondary.EmployerRecord, error) {
	record := &secondary.EmployerRecord{}
	err := d.db.QueryRowContext(ctx,
		"SELECT id, name, contract_code FROM employers WHERE id = ?",
		id,
	).Scan(&record.ID, &record.Name, &record.ContractCode)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("employer %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employer: %w", err)
	}

	return record, nil
}

// Ensure Directory implements the interfaces
var (
	_ secondary.MemberDirectory   = (*Directory)(nil)
	_ secondary.EmployerDirectory = (*Directory)(nil)
)
