// Package bid contains the pure business logic for job bid admission.
package bid

import (
	"fmt"
	"time"
)

// Bid outcomes.
const (
	OutcomePending   = "pending"
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeWithdrawn = "withdrawn"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// SubmitContext provides context for bid submission guards.
type SubmitContext struct {
	MemberID       string
	RequestID      string
	RequestStatus  string // labor request status
	BookBidding    bool   // the request's book allows online bidding
	WindowOpen     bool   // time window authority verdict for now
	SuspendedUntil time.Time // zero when no active bid suspension
	Now            time.Time
}

// CanSubmit evaluates whether a bid may enter the ledger.
// Rules:
// - The bidding window must be open
// - The member must not be under a bidding suspension
// - The request must still be open and its book bidding-enabled
func CanSubmit(ctx SubmitContext) GuardResult {
	if !ctx.WindowOpen {
		return GuardResult{
			Allowed: false,
			Reason:  "bidding window is closed",
		}
	}

	if !ctx.SuspendedUntil.IsZero() && ctx.Now.Before(ctx.SuspendedUntil) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("member %s is suspended from bidding until %s", ctx.MemberID, ctx.SuspendedUntil.Format("2006-01-02")),
		}
	}

	if ctx.RequestStatus != "open" && ctx.RequestStatus != "partial" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("request %s is not accepting bids (status: %s)", ctx.RequestID, ctx.RequestStatus),
		}
	}

	if !ctx.BookBidding {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("the book for request %s does not accept online bids", ctx.RequestID),
		}
	}

	return GuardResult{Allowed: true}
}

// OutcomeContext provides context for outcome recording guards.
type OutcomeContext struct {
	BidID      string
	Current    string
	NewOutcome string
}

// CanRecordOutcome evaluates an outcome transition.
// Rules:
// - Only pending bids may be decided
// - The new outcome must be a decision, not pending
func CanRecordOutcome(ctx OutcomeContext) GuardResult {
	if ctx.Current != OutcomePending {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("bid %s is already decided (outcome: %s)", ctx.BidID, ctx.Current),
		}
	}

	switch ctx.NewOutcome {
	case OutcomeAccepted, OutcomeRejected, OutcomeWithdrawn:
		return GuardResult{Allowed: true}
	default:
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("invalid bid outcome %q", ctx.NewOutcome),
		}
	}
}
