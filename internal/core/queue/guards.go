package queue

import "fmt"

// Registration status values.
const (
	StatusActive     = "active"
	StatusDispatched = "dispatched"
	StatusResigned   = "resigned"
	StatusSuspended  = "suspended"
	StatusRolledOff  = "rolled_off"
)

// IsTerminal reports whether a registration status is a closed state.
func IsTerminal(status string) bool {
	return status == StatusResigned || status == StatusRolledOff
}

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

// RegisterContext provides context for registration guards.
type RegisterContext struct {
	MemberID     string
	MemberExists bool
	BookID       string
	BookExists   bool
	Tier         int
	TierCount    int
	HasLive      bool // an active/dispatched/suspended registration already exists
}

// ReSignContext provides context for re-sign and reinstate guards.
type ReSignContext struct {
	RegistrationID string
	Status         string
}

// RollOffContext provides context for roll-off guards.
type RollOffContext struct {
	RegistrationID string
	Status         string
}

// CanRegister evaluates whether a member can take a place on a book tier.
// Rules:
// - Member and book must exist
// - Tier must be within the book's tier count
// - No live registration may exist for (member, book, tier)
func CanRegister(ctx RegisterContext) GuardResult {
	if !ctx.MemberExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("member %s not found", ctx.MemberID),
		}
	}

	if !ctx.BookExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("book %s not found", ctx.BookID),
		}
	}

	if ctx.Tier < 1 || ctx.Tier > ctx.TierCount {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("book %s has no tier %d (tiers 1-%d)", ctx.BookID, ctx.Tier, ctx.TierCount),
		}
	}

	if ctx.HasLive {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("member %s already holds a registration on book %s tier %d", ctx.MemberID, ctx.BookID, ctx.Tier),
		}
	}

	return GuardResult{Allowed: true}
}

// CanReSign evaluates whether a registration can re-sign to refresh its
// sort key.
// Rules:
// - Status must be "active"
func CanReSign(ctx ReSignContext) GuardResult {
	if ctx.Status != StatusActive {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only re-sign active registrations (current status: %s)", ctx.Status),
		}
	}

	return GuardResult{Allowed: true}
}

// CanReinstate evaluates whether a rolled-off registration can return to
// the book.
// Rules:
// - Status must be "rolled_off"
func CanReinstate(ctx ReSignContext) GuardResult {
	if ctx.Status != StatusRolledOff {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only reinstate rolled-off registrations (current status: %s)", ctx.Status),
		}
	}

	return GuardResult{Allowed: true}
}

// RollOffDecision is the three-way outcome of a roll-off guard: proceed,
// no-op (idempotent retry against a terminal row), or refused.
type RollOffDecision int

const (
	// RollOffProceed means the registration should transition to rolled_off.
	RollOffProceed RollOffDecision = iota
	// RollOffNoop means the registration is already terminal; callers treat
	// this as success without writing anything (retry tolerance).
	RollOffNoop
)

// DecideRollOff evaluates a roll-off request. Calling roll-off on an
// already-terminal registration is a no-op success, never an error.
func DecideRollOff(ctx RollOffContext) RollOffDecision {
	if IsTerminal(ctx.Status) {
		return RollOffNoop
	}
	return RollOffProceed
}
