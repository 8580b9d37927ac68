package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/hall/internal/adapters/sqlite"
	"github.com/example/hall/internal/ports/secondary"
)

func day(d int) time.Time {
	return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC)
}

func TestExemptionListActive(t *testing.T) {
	db := setupTestDB(t)
	seedMember(t, db, "MBR-001")
	seedBook(t, db, "BOOK-001")
	seedBook(t, db, "BOOK-002")

	repo := sqlite.NewExemptionRepository(db)
	ctx := context.Background()

	create := func(id, bookID string, from, to time.Time) {
		t.Helper()
		err := repo.Create(ctx, &secondary.ExemptionRecord{
			ID: id, MemberID: "MBR-001", BookID: bookID,
			Reason: "medical", StartsOn: from, EndsOn: to,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	create("EXM-001", "BOOK-001", day(1), day(30)) // covering
	create("EXM-002", "BOOK-001", day(20), day(25)) // not yet started
	create("EXM-003", "BOOK-002", day(1), day(30)) // other book

	active, err := repo.ListActive(ctx, "MBR-001", "BOOK-001", day(10))
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(active) != 1 || active[0].ID != "EXM-001" {
		t.Fatalf("ListActive() = %d rows, want the single covering exemption", len(active))
	}

	// Empty book ID spans all books.
	all, err := repo.ListActive(ctx, "MBR-001", "", day(10))
	if err != nil {
		t.Fatalf("ListActive('') error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListActive('') = %d rows, want 2", len(all))
	}
}

func TestExemptionRevoke(t *testing.T) {
	db := setupTestDB(t)
	seedMember(t, db, "MBR-001")
	seedBook(t, db, "BOOK-001")

	repo := sqlite.NewExemptionRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, &secondary.ExemptionRecord{
		ID: "EXM-001", MemberID: "MBR-001", BookID: "BOOK-001",
		Reason: "military", StartsOn: day(1), EndsOn: day(30),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Revoke(ctx, "EXM-001"); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	active, err := repo.ListActive(ctx, "MBR-001", "BOOK-001", day(10))
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(active) != 0 {
		t.Errorf("revoked exemption still listed active")
	}

	if err := repo.Revoke(ctx, "EXM-001"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("double Revoke() error = %v, want ErrNotFound", err)
	}
}

func TestSuspensionActiveUntil(t *testing.T) {
	db := setupTestDB(t)
	seedMember(t, db, "MBR-001")

	repo := sqlite.NewSuspensionRepository(db)
	ctx := context.Background()

	until, err := repo.ActiveUntil(ctx, "MBR-001", day(10))
	if err != nil {
		t.Fatalf("ActiveUntil() error = %v", err)
	}
	if !until.IsZero() {
		t.Errorf("ActiveUntil() with no suspensions = %v, want zero", until)
	}

	err = repo.Create(ctx, &secondary.SuspensionRecord{
		ID: "SUS-001", MemberID: "MBR-001", Reason: "2 bid rejections",
		StartsOn: day(1), EndsOn: day(20),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	until, err = repo.ActiveUntil(ctx, "MBR-001", day(10))
	if err != nil {
		t.Fatalf("ActiveUntil() error = %v", err)
	}
	if !until.Equal(day(20)) {
		t.Errorf("ActiveUntil() = %v, want %v", until, day(20))
	}

	// The end date itself is outside the suspension.
	until, err = repo.ActiveUntil(ctx, "MBR-001", day(20))
	if err != nil {
		t.Fatalf("ActiveUntil() error = %v", err)
	}
	if !until.IsZero() {
		t.Errorf("ActiveUntil() on end date = %v, want zero", until)
	}
}
