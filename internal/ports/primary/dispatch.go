package primary

import (
	"context"
	"time"
)

// DispatchService defines the primary port for labor request intake and
// assignment.
type DispatchService interface {
	// SubmitRequest takes an employer's ask for N workers.
	SubmitRequest(ctx context.Context, req SubmitRequestInput) (*LaborRequest, error)

	// Assign runs the matching algorithm for a request. Requests past the
	// same-day cutoff are deferred to the next cycle with zero dispatches.
	Assign(ctx context.Context, requestID string) (*AssignResult, error)

	// CancelRequest cancels the unfilled remainder of a request. Committed
	// dispatches are untouched.
	CancelRequest(ctx context.Context, requestID string) error

	// Terminate closes a dispatch, classifying short calls and feeding the
	// penalty engine on quit/discharge.
	Terminate(ctx context.Context, req TerminateInput) (*Dispatch, error)

	// GetRequest retrieves a labor request with its dispatch tally.
	GetRequest(ctx context.Context, requestID string) (*LaborRequest, error)
}

// SubmitRequestInput contains parameters for labor request intake.
type SubmitRequestInput struct {
	EmployerID     string    `validate:"required"`
	BookID         string    `validate:"required"`
	Tier           int       `validate:"min=1,max=4"`
	Classification string    `validate:"required"`
	Quantity       int       `validate:"min=1"`
	StartDate      time.Time `validate:"required"`
	// NamedMemberID marks a by-name (foreperson) request; anti-collusion
	// blackouts apply.
	NamedMemberID string
}

// LaborRequest represents a request at the port boundary.
type LaborRequest struct {
	ID             string
	EmployerID     string
	BookID         string
	Tier           int
	Classification string
	Quantity       int
	NamedMemberID  string
	Status         string
	ScheduledFor   time.Time
	SubmittedAt    time.Time
	StartDate      time.Time
	Dispatched     int
}

// AssignResult is the outcome of one assignment pass.
type AssignResult struct {
	RequestID  string
	Dispatches []*Dispatch
	// Skips records candidates passed over, in walk order, for transparency.
	Skips []CandidateSkip
	// Deferred is set when the request was past cutoff and pushed to the
	// next cycle instead of being processed.
	Deferred bool
	// ScheduledFor is the cycle date a deferred request will process on.
	ScheduledFor time.Time
	// Filled reports whether the request reached its full quantity.
	Filled bool
}

// CandidateSkip explains why a candidate was not selected.
type CandidateSkip struct {
	RegistrationID string
	MemberID       string
	Reason         string
	Until          time.Time
}

// TerminateInput contains parameters for closing a dispatch.
type TerminateInput struct {
	DispatchID string    `validate:"required"`
	Reason     string    `validate:"required,oneof=completed quit discharged short_call other"`
	EndDate    time.Time `validate:"required"`
}

// Dispatch represents a committed assignment at the port boundary.
type Dispatch struct {
	ID                string
	RegistrationID    string
	MemberID          string
	RequestID         string
	EmployerID        string
	StartDate         time.Time
	ActualEnd         time.Time
	ShortCall         bool
	TerminationReason string
	Status            string
}
