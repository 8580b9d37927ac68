package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/hall/internal/core/window"
	"github.com/example/hall/internal/metrics"
	"github.com/example/hall/internal/ports/primary"
	"github.com/example/hall/internal/ports/secondary"
)

// CycleServiceImpl implements the CycleService interface: the morning
// referral cycle that processes deferred requests group by group in the
// configured order.
type CycleServiceImpl struct {
	requestRepo secondary.RequestRepository
	bookRepo    secondary.BookRepository
	dispatcher  *DispatchServiceImpl
	authority   *window.Authority
	clock       window.Clock
	log         *zap.Logger
}

// NewCycleService creates a new CycleService with injected dependencies.
func NewCycleService(
	requestRepo secondary.RequestRepository,
	bookRepo secondary.BookRepository,
	dispatcher *DispatchServiceImpl,
	authority *window.Authority,
	clock window.Clock,
	log *zap.Logger,
) *CycleServiceImpl {
	return &CycleServiceImpl{
		requestRepo: requestRepo,
		bookRepo:    bookRepo,
		dispatcher:  dispatcher,
		authority:   authority,
		clock:       clock,
		log:         log,
	}
}

// RunGroup processes every labor request scheduled for the given book
// group's cycle on or before the given date. The cutoff check is suppressed:
// a deferred request's day has come.
func (s *CycleServiceImpl) RunGroup(ctx context.Context, group string, date time.Time) (*primary.CycleReport, error) {
	books, err := s.bookRepo.ListByGroup(ctx, group)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, fmt.Errorf("no books in group %q", group)
	}

	bookIDs := make([]string, 0, len(books))
	for _, b := range books {
		bookIDs = append(bookIDs, b.ID)
	}

	requests, err := s.requestRepo.ListScheduled(ctx, date, bookIDs)
	if err != nil {
		return nil, err
	}

	report := &primary.CycleReport{Group: group, Requests: len(requests)}

	for _, req := range requests {
		result, err := s.dispatcher.AssignScheduled(ctx, req.ID)
		if err != nil {
			// One bad request must not strand the rest of the cycle.
			metrics.CycleRuns.WithLabelValues(group, "error").Inc()
			s.log.Error("cycle assignment failed",
				zap.String("group", group),
				zap.String("request", req.ID),
				zap.Error(err),
			)
			continue
		}
		report.Dispatched += len(result.Dispatches)
		if !result.Filled && len(result.Dispatches) > 0 {
			report.Partial++
		}
	}

	metrics.CycleRuns.WithLabelValues(group, "ok").Inc()
	s.log.Info("cycle group processed",
		zap.String("group", group),
		zap.Int("requests", report.Requests),
		zap.Int("dispatched", report.Dispatched),
		zap.Int("partial", report.Partial),
	)

	return report, nil
}

// ProcessingOrder returns the configured group order for display.
func (s *CycleServiceImpl) ProcessingOrder(ctx context.Context) []primary.GroupSlot {
	order := s.authority.ProcessingOrder(s.clock.Now())
	slots := make([]primary.GroupSlot, 0, len(order))
	for _, g := range order {
		slots = append(slots, primary.GroupSlot{Name: g.Name, Start: g.Start.String()})
	}
	return slots
}

// Ensure CycleServiceImpl implements the interface
var _ primary.CycleService = (*CycleServiceImpl)(nil)
