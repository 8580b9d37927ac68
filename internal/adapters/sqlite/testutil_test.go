// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/hall/internal/adapters/sqlite"
	"github.com/example/hall/internal/core/queue"
	"github.com/example/hall/internal/db"
	"github.com/example/hall/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository
// tests. Uses db.GetSchemaSQL() to prevent test schemas from drifting.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedMember inserts a test member and returns its ID.
func seedMember(t *testing.T, db *sql.DB, id string) string {
	t.Helper()
	if id == "" {
		id = "MBR-001"
	}
	_, err := db.Exec("INSERT INTO members (id, name, classification) VALUES (?, 'Test Member', 'wireman')", id)
	if err != nil {
		t.Fatalf("failed to seed member: %v", err)
	}
	return id
}

// seedEmployer inserts a test employer and returns its ID.
func seedEmployer(t *testing.T, db *sql.DB, id string) string {
	t.Helper()
	if id == "" {
		id = "EMP-001"
	}
	_, err := db.Exec("INSERT INTO employers (id, name, contract_code) VALUES (?, 'Test Employer', 'INSIDE-A')", id)
	if err != nil {
		t.Fatalf("failed to seed employer: %v", err)
	}
	return id
}

// seedBook inserts a test book and returns its ID.
func seedBook(t *testing.T, db *sql.DB, id string) string {
	t.Helper()
	if id == "" {
		id = "BOOK-001"
	}
	_, err := db.Exec(
		"INSERT INTO books (id, name, classification, tier_count, online_bidding) VALUES (?, ?, 'wireman', 2, 1)",
		id, "Book "+id,
	)
	if err != nil {
		t.Fatalf("failed to seed book: %v", err)
	}
	return id
}

// seedRequest inserts an open labor request and returns its ID.
func seedRequest(t *testing.T, db *sql.DB, id, employerID, bookID string, quantity int) string {
	t.Helper()
	if id == "" {
		id = "REQ-001"
	}
	_, err := db.Exec(
		"INSERT INTO labor_requests (id, employer_id, book_id, tier, classification, quantity, status, start_date) VALUES (?, ?, ?, 1, 'wireman', ?, 'open', '2026-09-01')",
		id, employerID, bookID, quantity,
	)
	if err != nil {
		t.Fatalf("failed to seed request: %v", err)
	}
	return id
}

// createRegistration registers a member through the repository so tie-break
// allocation and the activity dual-write run for real.
func createRegistration(t *testing.T, database *sql.DB, id, memberID, bookID string, day int64) *secondary.RegistrationRecord {
	t.Helper()

	repo := sqlite.NewRegistrationRepository(database)
	reg := &secondary.RegistrationRecord{
		ID:        id,
		MemberID:  memberID,
		BookID:    bookID,
		Tier:      1,
		DaySerial: day,
		Status:    queue.StatusActive,
	}
	act := &secondary.ActivityRecord{
		RegistrationID: id,
		MemberID:       memberID,
		BookID:         bookID,
		Event:          secondary.EventRegister,
		OccurredAt:     time.Now(),
	}
	if err := repo.Create(context.Background(), reg, act); err != nil {
		t.Fatalf("failed to create registration %s: %v", id, err)
	}
	return reg
}

// countRows returns the number of rows matching a simple WHERE clause.
func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}
