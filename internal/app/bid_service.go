package app

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/example/hall/internal/core/bid"
	"github.com/example/hall/internal/core/penalty"
	"github.com/example/hall/internal/core/window"
	"github.com/example/hall/internal/metrics"
	"github.com/example/hall/internal/ports/primary"
	"github.com/example/hall/internal/ports/secondary"
)

// BidServiceImpl implements the BidService interface.
type BidServiceImpl struct {
	bidRepo        secondary.BidRepository
	requestRepo    secondary.RequestRepository
	bookRepo       secondary.BookRepository
	suspensionRepo secondary.SuspensionRepository
	members        secondary.MemberDirectory
	penalties      primary.PenaltyService
	authority      *window.Authority
	clock          window.Clock
	rules          Rules
	validate       *validator.Validate
	log            *zap.Logger
}

// NewBidService creates a new BidService with injected dependencies.
func NewBidService(
	bidRepo secondary.BidRepository,
	requestRepo secondary.RequestRepository,
	bookRepo secondary.BookRepository,
	suspensionRepo secondary.SuspensionRepository,
	members secondary.MemberDirectory,
	penalties primary.PenaltyService,
	authority *window.Authority,
	clock window.Clock,
	rules Rules,
	log *zap.Logger,
) *BidServiceImpl {
	return &BidServiceImpl{
		bidRepo:        bidRepo,
		requestRepo:    requestRepo,
		bookRepo:       bookRepo,
		suspensionRepo: suspensionRepo,
		members:        members,
		penalties:      penalties,
		authority:      authority,
		clock:          clock,
		rules:          rules,
		validate:       validator.New(),
		log:            log,
	}
}

// SubmitBid records a member's bid on a request during the bidding window.
func (s *BidServiceImpl) SubmitBid(ctx context.Context, in primary.SubmitBidInput) (*primary.Bid, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid bid: %w", err)
	}

	if _, err := s.members.GetMember(ctx, in.MemberID); err != nil {
		return nil, err
	}
	req, err := s.requestRepo.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	book, err := s.bookRepo.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	suspendedUntil, err := s.suspensionRepo.ActiveUntil(ctx, in.MemberID, now)
	if err != nil {
		return nil, err
	}

	guard := bid.CanSubmit(bid.SubmitContext{
		MemberID:       in.MemberID,
		RequestID:      in.RequestID,
		RequestStatus:  req.Status,
		BookBidding:    book.OnlineBidding,
		WindowOpen:     s.authority.IsBiddingOpen(now),
		SuspendedUntil: suspendedUntil,
		Now:            now,
	})
	if !guard.Allowed {
		if !suspendedUntil.IsZero() && now.Before(suspendedUntil) {
			return nil, fmt.Errorf("%s: %w", guard.Reason, secondary.ErrBidSuspended)
		}
		return nil, fmt.Errorf("%s: %w", guard.Reason, secondary.ErrBiddingClosed)
	}

	nextID, err := s.bidRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate bid ID: %w", err)
	}

	record := &secondary.BidRecord{
		ID:          nextID,
		MemberID:    in.MemberID,
		RequestID:   in.RequestID,
		Outcome:     bid.OutcomePending,
		SubmittedAt: now,
	}
	if err := s.bidRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	metrics.BidsSubmitted.Inc()
	s.log.Info("bid submitted",
		zap.String("bid", nextID),
		zap.String("member", in.MemberID),
		zap.String("request", in.RequestID),
	)

	return recordToBid(record), nil
}

// RecordOutcome decides a pending bid. A rejection feeds the rolling
// counter; reaching the limit starts a bidding suspension. Dispatch
// standing is never touched.
func (s *BidServiceImpl) RecordOutcome(ctx context.Context, bidID, outcome string) (*primary.Bid, error) {
	b, err := s.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}

	guard := bid.CanRecordOutcome(bid.OutcomeContext{
		BidID:      b.ID,
		Current:    b.Outcome,
		NewOutcome: outcome,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.bidRepo.RecordOutcome(ctx, b.ID, outcome, now); err != nil {
		return nil, err
	}

	if outcome == bid.OutcomeRejected {
		since := now.Add(-s.rules.BidRejectionWindow)
		rejections, err := s.bidRepo.CountRejectionsSince(ctx, b.MemberID, since)
		if err != nil {
			return nil, err
		}

		decision := penalty.DecideSuspension(penalty.SuspensionContext{
			RejectionsInWindow: rejections,
			Limit:              s.rules.BidRejectionLimit,
			Duration:           s.rules.BidSuspension,
			Now:                now,
		})
		if decision.Suspend {
			until, err := s.penalties.ImposeBidSuspension(ctx, b.MemberID, now)
			if err != nil {
				return nil, err
			}
			s.log.Warn("bid suspension imposed",
				zap.String("member", b.MemberID),
				zap.Int("rejections", rejections),
				zap.Time("until", until),
			)
		}
	}

	updated, err := s.bidRepo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	return recordToBid(updated), nil
}

// Withdraw retracts a pending bid. Withdrawals never count as rejections.
func (s *BidServiceImpl) Withdraw(ctx context.Context, bidID string) error {
	b, err := s.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return err
	}

	guard := bid.CanRecordOutcome(bid.OutcomeContext{
		BidID:      b.ID,
		Current:    b.Outcome,
		NewOutcome: bid.OutcomeWithdrawn,
	})
	if err := guard.Error(); err != nil {
		return err
	}

	if err := s.bidRepo.RecordOutcome(ctx, b.ID, bid.OutcomeWithdrawn, s.clock.Now()); err != nil {
		return err
	}

	s.log.Info("bid withdrawn", zap.String("bid", b.ID))
	return nil
}

// ListBids returns the bids placed against a request.
func (s *BidServiceImpl) ListBids(ctx context.Context, requestID string) ([]*primary.Bid, error) {
	records, err := s.bidRepo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	bids := make([]*primary.Bid, 0, len(records))
	for _, r := range records {
		bids = append(bids, recordToBid(r))
	}
	return bids, nil
}

// Ensure BidServiceImpl implements the interface
var _ primary.BidService = (*BidServiceImpl)(nil)
