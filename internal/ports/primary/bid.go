package primary

import (
	"context"
	"time"
)

// BidService defines the primary port for the bid ledger.
type BidService interface {
	// SubmitBid records a member's bid on a request during the bidding window.
	SubmitBid(ctx context.Context, req SubmitBidInput) (*Bid, error)

	// RecordOutcome decides a pending bid. Rejections feed the rolling
	// suspension counter.
	RecordOutcome(ctx context.Context, bidID, outcome string) (*Bid, error)

	// Withdraw retracts a pending bid; never counted as a rejection.
	Withdraw(ctx context.Context, bidID string) error

	// ListBids returns the bids placed against a request.
	ListBids(ctx context.Context, requestID string) ([]*Bid, error)
}

// SubmitBidInput contains parameters for a bid submission.
type SubmitBidInput struct {
	MemberID  string `validate:"required"`
	RequestID string `validate:"required"`
}

// Bid represents a bid at the port boundary.
type Bid struct {
	ID          string
	MemberID    string
	RequestID   string
	Outcome     string
	SubmittedAt time.Time
	DecidedAt   time.Time
}
