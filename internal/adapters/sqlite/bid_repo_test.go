package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/hall/internal/adapters/sqlite"
	"github.com/example/hall/internal/core/bid"
	"github.com/example/hall/internal/ports/secondary"
)

func bidFixture(t *testing.T) (*sqlite.BidRepository, string, string) {
	t.Helper()

	db := setupTestDB(t)
	seedBook(t, db, "BOOK-001")
	seedMember(t, db, "MBR-001")
	seedEmployer(t, db, "EMP-001")
	reqID := seedRequest(t, db, "REQ-001", "EMP-001", "BOOK-001", 1)

	return sqlite.NewBidRepository(db), "MBR-001", reqID
}

func TestBidCreateAndGet(t *testing.T) {
	repo, memberID, reqID := bidFixture(t)
	ctx := context.Background()

	record := &secondary.BidRecord{
		ID: "BID-001", MemberID: memberID, RequestID: reqID,
		SubmittedAt: time.Now(),
	}
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "BID-001")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Outcome != bid.OutcomePending {
		t.Errorf("Outcome = %s, want pending", got.Outcome)
	}
	if !got.DecidedAt.IsZero() {
		t.Errorf("DecidedAt = %v, want zero before a decision", got.DecidedAt)
	}
}

func TestBidRecordOutcomeOnlyOnce(t *testing.T) {
	repo, memberID, reqID := bidFixture(t)
	ctx := context.Background()

	record := &secondary.BidRecord{
		ID: "BID-001", MemberID: memberID, RequestID: reqID,
		SubmittedAt: time.Now(),
	}
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	decided := time.Now()
	if err := repo.RecordOutcome(ctx, "BID-001", bid.OutcomeRejected, decided); err != nil {
		t.Fatalf("RecordOutcome() error = %v", err)
	}

	err := repo.RecordOutcome(ctx, "BID-001", bid.OutcomeAccepted, decided)
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Fatalf("second RecordOutcome() error = %v, want ErrNotFound", err)
	}

	got, _ := repo.GetByID(ctx, "BID-001")
	if got.Outcome != bid.OutcomeRejected {
		t.Errorf("Outcome = %s, want the first decision to stand", got.Outcome)
	}
}

func TestBidCountRejectionsSince(t *testing.T) {
	repo, memberID, reqID := bidFixture(t)
	ctx := context.Background()
	now := time.Now()

	place := func(id string, outcome string, decidedAgo time.Duration) {
		t.Helper()
		record := &secondary.BidRecord{
			ID: id, MemberID: memberID, RequestID: reqID,
			SubmittedAt: now.Add(-decidedAgo - time.Hour),
		}
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if outcome != bid.OutcomePending {
			if err := repo.RecordOutcome(ctx, id, outcome, now.Add(-decidedAgo)); err != nil {
				t.Fatalf("RecordOutcome() error = %v", err)
			}
		}
	}

	year := 365 * 24 * time.Hour
	place("BID-001", bid.OutcomeRejected, 30*24*time.Hour)   // inside window
	place("BID-002", bid.OutcomeRejected, 400*24*time.Hour)  // outside window
	place("BID-003", bid.OutcomeWithdrawn, 10*24*time.Hour)  // withdrawals never count
	place("BID-004", bid.OutcomeAccepted, 5*24*time.Hour)    // acceptances never count
	place("BID-005", bid.OutcomePending, 0)

	count, err := repo.CountRejectionsSince(ctx, memberID, now.Add(-year))
	if err != nil {
		t.Fatalf("CountRejectionsSince() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountRejectionsSince() = %d, want 1", count)
	}
}

func TestBidListByRequest(t *testing.T) {
	repo, memberID, reqID := bidFixture(t)
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 3; i++ {
		record := &secondary.BidRecord{
			ID:          []string{"BID-001", "BID-002", "BID-003"}[i],
			MemberID:    memberID,
			RequestID:   reqID,
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	bids, err := repo.ListByRequest(ctx, reqID)
	if err != nil {
		t.Fatalf("ListByRequest() error = %v", err)
	}
	if len(bids) != 3 {
		t.Fatalf("ListByRequest() returned %d rows, want 3", len(bids))
	}
	if bids[0].ID != "BID-001" || bids[2].ID != "BID-003" {
		t.Errorf("ListByRequest() not in submission order: %s ... %s", bids[0].ID, bids[2].ID)
	}
}
