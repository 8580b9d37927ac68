package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/hall/internal/adapters/sqlite"
	"github.com/example/hall/internal/ctxutil"
	"github.com/example/hall/internal/ports/secondary"
)

func TestActivityAppendMirrorsAuditLog(t *testing.T) {
	db := setupTestDB(t)
	seedMember(t, db, "MBR-001")

	repo := sqlite.NewActivityRepository(db)
	ctx := ctxutil.WithActor(context.Background(), "dispatcher-3")

	err := repo.Append(ctx, &secondary.ActivityRecord{
		MemberID:   "MBR-001",
		Event:      secondary.EventBidSuspension,
		Detail:     "suspension SUS-001",
		OccurredAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if n := countRows(t, db, "SELECT COUNT(*) FROM registration_activity WHERE member_id = 'MBR-001'"); n != 1 {
		t.Errorf("activity rows = %d, want 1", n)
	}
	// No registration on the event: the mirror keys on the member.
	if n := countRows(t, db, "SELECT COUNT(*) FROM audit_log WHERE entity_type = 'member' AND entity_id = 'MBR-001'"); n != 1 {
		t.Errorf("audit mirror rows = %d, want 1", n)
	}

	var actor string
	if err := db.QueryRow("SELECT actor FROM audit_log WHERE entity_id = 'MBR-001'").Scan(&actor); err != nil {
		t.Fatalf("audit row missing: %v", err)
	}
	if actor != "dispatcher-3" {
		t.Errorf("audit actor = %q, want %q", actor, "dispatcher-3")
	}
}

func TestActivityListFilters(t *testing.T) {
	db := setupTestDB(t)
	seedMember(t, db, "MBR-001")
	seedMember(t, db, "MBR-002")

	repo := sqlite.NewActivityRepository(db)
	ctx := context.Background()
	base := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)

	append := func(memberID, bookID, event string, at time.Time) {
		t.Helper()
		err := repo.Append(ctx, &secondary.ActivityRecord{
			MemberID: memberID, BookID: bookID, Event: event, OccurredAt: at,
		})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	append("MBR-001", "BOOK-001", secondary.EventRegister, base)
	append("MBR-001", "BOOK-001", secondary.EventReSign, base.AddDate(0, 0, 10))
	append("MBR-002", "BOOK-001", secondary.EventRegister, base.AddDate(0, 0, 5))
	append("MBR-001", "BOOK-002", secondary.EventRegister, base.AddDate(0, 0, 20))

	byMember, err := repo.List(ctx, secondary.ActivityFilters{MemberID: "MBR-001"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(byMember) != 3 {
		t.Errorf("member filter rows = %d, want 3", len(byMember))
	}
	for i := 1; i < len(byMember); i++ {
		if byMember[i].OccurredAt.Before(byMember[i-1].OccurredAt) {
			t.Error("List() not in chronological order")
		}
	}

	byBook, err := repo.List(ctx, secondary.ActivityFilters{BookID: "BOOK-002"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(byBook) != 1 {
		t.Errorf("book filter rows = %d, want 1", len(byBook))
	}

	ranged, err := repo.List(ctx, secondary.ActivityFilters{
		MemberID: "MBR-001",
		From:     base.AddDate(0, 0, 5),
		To:       base.AddDate(0, 0, 15),
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ranged) != 1 || ranged[0].Event != secondary.EventReSign {
		t.Errorf("date range rows = %d, want the single re-sign", len(ranged))
	}

	limited, err := repo.List(ctx, secondary.ActivityFilters{MemberID: "MBR-001", Limit: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited rows = %d, want 2", len(limited))
	}
}
