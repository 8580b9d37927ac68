package primary

import (
	"context"
	"time"
)

// ActivityService defines the primary port for the audit/compliance stream.
// Read-only: the trail has no update or delete path.
type ActivityService interface {
	// Stream returns activity rows filtered by member, book, and date range,
	// oldest first.
	Stream(ctx context.Context, filter ActivityFilter) ([]*Activity, error)
}

// ActivityFilter narrows the activity stream.
type ActivityFilter struct {
	MemberID string
	BookID   string
	From     time.Time
	To       time.Time
	Limit    int
}

// Activity is one audit row at the port boundary.
type Activity struct {
	ID             string
	RegistrationID string
	MemberID       string
	BookID         string
	Event          string
	Detail         string
	Actor          string
	OccurredAt     time.Time
}

// CycleService defines the primary port for referral cycle processing.
type CycleService interface {
	// RunGroup processes every labor request scheduled for the given book
	// group's cycle on the given date.
	RunGroup(ctx context.Context, group string, date time.Time) (*CycleReport, error)

	// ProcessingOrder returns the configured group order for display.
	ProcessingOrder(ctx context.Context) []GroupSlot
}

// GroupSlot is one entry of the processing order.
type GroupSlot struct {
	Name  string
	Start string
}

// CycleReport summarizes one group's cycle run.
type CycleReport struct {
	Group      string
	Requests   int
	Dispatched int
	Partial    int
}
