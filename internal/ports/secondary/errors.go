package secondary

import "errors"

// Sentinel errors shared across adapters and services. Validation errors
// surface to callers immediately; ErrVersionConflict is consumed by the
// dispatch assignor, which moves on to the next candidate.
var (
	// ErrDuplicateRegistration: a live registration already exists for the
	// (member, book, tier).
	ErrDuplicateRegistration = errors.New("duplicate registration")

	// ErrNotActive: the operation requires an active registration.
	ErrNotActive = errors.New("registration not active")

	// ErrBiddingClosed: bid submitted outside the bidding window.
	ErrBiddingClosed = errors.New("bidding closed")

	// ErrBidSuspended: the member is under an active bidding suspension.
	ErrBidSuspended = errors.New("bidding suspended")

	// ErrVersionConflict: an optimistic-lock check failed; the row changed
	// under the writer.
	ErrVersionConflict = errors.New("version conflict")

	// ErrRequestClosed: the labor request no longer accepts dispatches or bids.
	ErrRequestClosed = errors.New("labor request closed")

	// ErrNotFound: the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)
