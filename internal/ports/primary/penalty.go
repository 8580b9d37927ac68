package primary

import (
	"context"
	"time"
)

// PenaltyService defines the primary port for check marks, exemptions, and
// separation cascades.
type PenaltyService interface {
	// RecordCheckMark records a missed-obligation event against a
	// registration. An active exemption covering the event date suppresses
	// the mark entirely; the third mark rolls the registration off.
	RecordCheckMark(ctx context.Context, registrationID string, eventDate time.Time) (*CheckMarkResult, error)

	// ReportSeparation applies the quit/discharge cascade for a dispatch:
	// every active registration of the member rolls off and a blackout is
	// created against by-name requests from the employer.
	ReportSeparation(ctx context.Context, dispatchID, kind string) (*SeparationResult, error)

	// GrantExemption opens a time-bounded exemption for a (member, book).
	GrantExemption(ctx context.Context, req GrantExemptionInput) (*Exemption, error)

	// RevokeExemption closes an exemption early.
	RevokeExemption(ctx context.Context, exemptionID string) error

	// ImposeBidSuspension starts a bidding suspension for a member. Called
	// by the bid ledger when the rejection limit is reached.
	ImposeBidSuspension(ctx context.Context, memberID string, from time.Time) (time.Time, error)
}

// CheckMarkResult reports the outcome of one check-mark event.
type CheckMarkResult struct {
	RegistrationID string
	Suppressed     bool
	CheckMarks     int
	RolledOff      bool
}

// SeparationResult reports the cascade applied for a quit/discharge.
type SeparationResult struct {
	MemberID      string
	RolledOff     []string // registration IDs closed by the cascade
	BlackoutID    string
	BlackoutUntil time.Time
}

// GrantExemptionInput contains parameters for granting an exemption.
type GrantExemptionInput struct {
	MemberID string    `validate:"required"`
	BookID   string    `validate:"required"`
	Reason   string    `validate:"required"`
	StartsOn time.Time `validate:"required"`
	EndsOn   time.Time `validate:"required,gtefield=StartsOn"`
}

// Exemption represents an exemption at the port boundary.
type Exemption struct {
	ID       string
	MemberID string
	BookID   string
	Reason   string
	StartsOn time.Time
	EndsOn   time.Time
	Revoked  bool
}
