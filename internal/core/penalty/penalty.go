// Package penalty contains the pure decision logic for the check-mark
// state machine, bid-rejection suspensions, and quit/discharge cascades.
// Services apply the decisions; nothing here touches storage.
package penalty

import "time"

// Check-mark states. A registration walks Clean -> Warned -> Marked ->
// RolledOff; the final transition is automatic and irreversible absent an
// exemption at the triggering event.
const (
	StateClean     = 0
	StateWarned    = 1
	StateMarked    = 2
	StateRolledOff = 3
)

// MarkOutcome is the decision for one check-mark event.
type MarkOutcome struct {
	// Suppressed means an exemption covered the event date: the mark is
	// never recorded, not merely excused afterwards.
	Suppressed bool
	// NewCount is the check-mark count after the event.
	NewCount int
	// RollOff means the mark was the final one and the registration leaves
	// the book.
	RollOff bool
}

// MarkContext provides the facts for a check-mark decision.
type MarkContext struct {
	CurrentCount int
	Limit        int // marks that trigger roll-off (rule set default 3)
	EventDate    time.Time
	// ExemptionCovers is true when an active exemption spans EventDate.
	ExemptionCovers bool
}

// DecideMark evaluates one missed-obligation event.
func DecideMark(ctx MarkContext) MarkOutcome {
	if ctx.ExemptionCovers {
		return MarkOutcome{Suppressed: true, NewCount: ctx.CurrentCount}
	}

	next := ctx.CurrentCount + 1
	return MarkOutcome{
		NewCount: next,
		RollOff:  next >= ctx.Limit,
	}
}

// SuspensionContext provides the facts for a bid-suspension decision.
type SuspensionContext struct {
	// RejectionsInWindow counts rejected bids inside the rolling window,
	// including the one just recorded.
	RejectionsInWindow int
	Limit              int           // rejections that trigger suspension (default 2)
	Duration           time.Duration // suspension length (default 1 year)
	Now                time.Time
}

// SuspensionOutcome says whether a bidding suspension starts, and until when.
// A suspension blocks bids only; the member stays on the book for walk-in
// and phone dispatch.
type SuspensionOutcome struct {
	Suspend bool
	Until   time.Time
}

// DecideSuspension evaluates the rolling rejection count after an outcome
// is recorded.
func DecideSuspension(ctx SuspensionContext) SuspensionOutcome {
	if ctx.RejectionsInWindow < ctx.Limit {
		return SuspensionOutcome{}
	}
	return SuspensionOutcome{Suspend: true, Until: ctx.Now.Add(ctx.Duration)}
}

// SeparationKind distinguishes the two cascade triggers.
type SeparationKind string

const (
	SeparationQuit      SeparationKind = "quit"
	SeparationDischarge SeparationKind = "discharge"
)

// SeparationContext provides the facts for a quit/discharge cascade.
type SeparationContext struct {
	Kind             SeparationKind
	EmployerID       string
	Now              time.Time
	BlackoutDuration time.Duration // default 2 weeks
}

// SeparationOutcome describes the cascade: every active registration across
// all books rolls off, and a blackout bars by-name requests from the last
// employer.
type SeparationOutcome struct {
	RollOffReason string
	BlackoutFrom  time.Time
	BlackoutUntil time.Time
}

// DecideSeparation evaluates a quit or discharge notification.
func DecideSeparation(ctx SeparationContext) SeparationOutcome {
	return SeparationOutcome{
		RollOffReason: string(ctx.Kind),
		BlackoutFrom:  ctx.Now,
		BlackoutUntil: ctx.Now.Add(ctx.BlackoutDuration),
	}
}

// ShortCallDays is the inclusive day count of a dispatch: a job starting and
// ending the same day counts as one day. Jobs of thresholdDays or fewer are
// short calls and return the member to their book position.
func ShortCallDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// IsShortCall reports whether a completed dispatch qualifies as a short call.
func IsShortCall(start, end time.Time, thresholdDays int) bool {
	days := ShortCallDays(start, end)
	return days > 0 && days <= thresholdDays
}
