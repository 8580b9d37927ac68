// Package primary defines the primary ports (driving adapters) for the
// application: the service interfaces the CLI and cycle runner call, and
// the request/response DTOs they exchange.
package primary

import (
	"context"
	"time"
)

// QueueService defines the primary port for registration list operations.
type QueueService interface {
	// Register places a member on a book tier, assigning the queue sort key.
	Register(ctx context.Context, req RegisterRequest) (*Registration, error)

	// ListCandidates returns the active queue for a book tier in dispatch order.
	ListCandidates(ctx context.Context, bookID string, tier int) ([]*Registration, error)

	// ReSign refreshes the registration's sort key to now (30-day cycle).
	ReSign(ctx context.Context, registrationID string) (*Registration, error)

	// RollOff permanently removes the registration from its book's active
	// queue. Idempotent: terminal registrations return success unchanged.
	RollOff(ctx context.Context, registrationID, reason string) error

	// Resign closes the registration at the member's request.
	Resign(ctx context.Context, registrationID string) error

	// Reinstate returns a rolled-off registration to the book with a fresh
	// sort key.
	Reinstate(ctx context.Context, registrationID string) (*Registration, error)

	// GetRegistration retrieves one registration.
	GetRegistration(ctx context.Context, registrationID string) (*Registration, error)
}

// RegisterRequest contains parameters for registering a member.
type RegisterRequest struct {
	MemberID string `validate:"required"`
	BookID   string `validate:"required"`
	Tier     int    `validate:"min=1,max=4"`
}

// Registration represents a registration at the port boundary.
type Registration struct {
	ID            string
	MemberID      string
	BookID        string
	Tier          int
	Position      string // legacy fixed-point rendering, e.g. "44562.01"
	DaySerial     int64
	TieBreak      int64
	Status        string
	CheckMarks    int
	RollOffReason string
	RegisteredAt  time.Time
}
