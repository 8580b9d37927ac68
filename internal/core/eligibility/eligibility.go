// Package eligibility decides whether a registration may be offered work
// right now. Evaluation is pure: all facts arrive in the Input and the
// first blocking condition, in fixed priority order, names the result.
// Safe to call repeatedly during a single assignment walk.
package eligibility

import (
	"time"

	"github.com/example/hall/internal/core/queue"
)

// Reason tags why a registration is not eligible.
type Reason string

const (
	ReasonRolledOff         Reason = "rolled_off"
	ReasonAlreadyDispatched Reason = "already_dispatched"
	ReasonSuspended         Reason = "suspended"
	ReasonExempt            Reason = "exempt"
	ReasonBlackout          Reason = "blackout"
)

// Result is either eligible or a tagged blocking reason, with the bar's
// expiry when one is known.
type Result struct {
	Eligible bool
	Reason   Reason
	Until    time.Time // zero unless the bar is time-bounded
}

// Window is a closed date interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// Covers reports whether t falls inside the window (inclusive bounds).
func (w Window) Covers(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Input carries every fact the evaluator needs. Loading them is the
// caller's job; evaluation never touches storage.
type Input struct {
	Status         string
	SuspendedUntil time.Time // when Status is suspended and the end is known

	// Exemptions active for this (member, book).
	Exemptions []Window

	// Blackouts against the requesting employer, plus anti-collusion bars
	// when the request is by-name.
	Blackouts []Window

	// ByName marks the request as a named-worker ask.
	ByName bool

	Now time.Time
}

// Evaluate returns the registration's current eligibility. Blocking
// conditions are checked in priority order; the first true one wins.
func Evaluate(in Input) Result {
	if in.Status == queue.StatusRolledOff || in.Status == queue.StatusResigned {
		return Result{Reason: ReasonRolledOff}
	}

	if in.Status == queue.StatusDispatched {
		return Result{Reason: ReasonAlreadyDispatched}
	}

	if in.Status == queue.StatusSuspended {
		return Result{Reason: ReasonSuspended, Until: in.SuspendedUntil}
	}

	for _, w := range in.Exemptions {
		if w.Covers(in.Now) {
			return Result{Reason: ReasonExempt, Until: w.End}
		}
	}

	for _, w := range in.Blackouts {
		if w.Covers(in.Now) {
			return Result{Reason: ReasonBlackout, Until: w.End}
		}
	}

	return Result{Eligible: true}
}
