package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/example/hall/internal/core/eligibility"
	"github.com/example/hall/internal/core/penalty"
	"github.com/example/hall/internal/core/window"
	"github.com/example/hall/internal/metrics"
	"github.com/example/hall/internal/ports/primary"
	"github.com/example/hall/internal/ports/secondary"
)

// DispatchServiceImpl implements the DispatchService interface. Assign is
// the matching algorithm: walk the ordered queue, evaluate eligibility per
// candidate, and commit each selection in its own optimistic transaction.
type DispatchServiceImpl struct {
	requestRepo  secondary.RequestRepository
	regRepo      secondary.RegistrationRepository
	dispatchRepo secondary.DispatchRepository
	bookRepo     secondary.BookRepository
	exemptRepo   secondary.ExemptionRepository
	blackoutRepo secondary.BlackoutRepository
	activityRepo secondary.ActivityRepository
	employers    secondary.EmployerDirectory
	separations  primary.PenaltyService
	authority    *window.Authority
	clock        window.Clock
	rules        Rules
	validate     *validator.Validate
	log          *zap.Logger
}

// NewDispatchService creates a new DispatchService with injected dependencies.
func NewDispatchService(
	requestRepo secondary.RequestRepository,
	regRepo secondary.RegistrationRepository,
	dispatchRepo secondary.DispatchRepository,
	bookRepo secondary.BookRepository,
	exemptRepo secondary.ExemptionRepository,
	blackoutRepo secondary.BlackoutRepository,
	activityRepo secondary.ActivityRepository,
	employers secondary.EmployerDirectory,
	separations primary.PenaltyService,
	authority *window.Authority,
	clock window.Clock,
	rules Rules,
	log *zap.Logger,
) *DispatchServiceImpl {
	return &DispatchServiceImpl{
		requestRepo:  requestRepo,
		regRepo:      regRepo,
		dispatchRepo: dispatchRepo,
		bookRepo:     bookRepo,
		exemptRepo:   exemptRepo,
		blackoutRepo: blackoutRepo,
		activityRepo: activityRepo,
		employers:    employers,
		separations:  separations,
		authority:    authority,
		clock:        clock,
		rules:        rules,
		validate:     validator.New(),
		log:          log,
	}
}

// SubmitRequest takes an employer's ask for N workers of a classification.
func (s *DispatchServiceImpl) SubmitRequest(ctx context.Context, in primary.SubmitRequestInput) (*primary.LaborRequest, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid labor request: %w", err)
	}

	if _, err := s.employers.GetEmployer(ctx, in.EmployerID); err != nil {
		return nil, err
	}
	if _, err := s.bookRepo.GetByID(ctx, in.BookID); err != nil {
		return nil, err
	}

	nextID, err := s.requestRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate request ID: %w", err)
	}

	now := s.clock.Now()
	record := &secondary.RequestRecord{
		ID:             nextID,
		EmployerID:     in.EmployerID,
		BookID:         in.BookID,
		Tier:           in.Tier,
		Classification: in.Classification,
		Quantity:       in.Quantity,
		NamedMemberID:  in.NamedMemberID,
		Status:         secondary.RequestOpen,
		SubmittedAt:    now,
		StartDate:      in.StartDate,
	}

	// Past-cutoff intake is stamped for the next cycle up front so the
	// morning run can find it without re-deriving the window decision.
	if s.authority.IsPastCutoff(now) {
		record.ScheduledFor = s.authority.NextCycleDate(now)
	}

	if err := s.requestRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("labor request submitted",
		zap.String("request", nextID),
		zap.String("employer", in.EmployerID),
		zap.String("book", in.BookID),
		zap.Int("quantity", in.Quantity),
		zap.Bool("by_name", in.NamedMemberID != ""),
	)

	return recordToRequest(record, 0), nil
}

// Assign runs the matching algorithm for a request, honoring the same-day
// cutoff: past-cutoff requests defer to the next cycle with zero dispatches.
func (s *DispatchServiceImpl) Assign(ctx context.Context, requestID string) (*primary.AssignResult, error) {
	return s.assign(ctx, requestID, false)
}

// AssignScheduled runs the matching algorithm with the cutoff check
// suppressed. Used by the cycle runner when a deferred request's cycle
// comes up.
func (s *DispatchServiceImpl) AssignScheduled(ctx context.Context, requestID string) (*primary.AssignResult, error) {
	return s.assign(ctx, requestID, true)
}

func (s *DispatchServiceImpl) assign(ctx context.Context, requestID string, force bool) (*primary.AssignResult, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if req.Status != secondary.RequestOpen && req.Status != secondary.RequestPartial {
		return nil, fmt.Errorf("request %s (status: %s): %w", req.ID, req.Status, secondary.ErrRequestClosed)
	}

	now := s.clock.Now()
	result := &primary.AssignResult{RequestID: req.ID}

	if !force && s.authority.IsPastCutoff(now) {
		cycleDate := s.authority.NextCycleDate(now)
		if err := s.requestRepo.SetScheduledFor(ctx, req.ID, cycleDate); err != nil {
			return nil, err
		}
		result.Deferred = true
		result.ScheduledFor = cycleDate
		s.log.Info("request deferred past cutoff",
			zap.String("request", req.ID),
			zap.Time("scheduled_for", cycleDate),
		)
		return result, nil
	}

	committed, err := s.requestRepo.CountActiveDispatches(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	needed := req.Quantity - committed
	if needed <= 0 {
		result.Filled = true
		return result, nil
	}

	candidates, err := s.regRepo.ListActiveOrdered(ctx, req.BookID, req.Tier)
	if err != nil {
		return nil, err
	}

	for _, cand := range candidates {
		if needed == 0 {
			break
		}

		// By-name requests target exactly the named member.
		if req.NamedMemberID != "" && cand.MemberID != req.NamedMemberID {
			continue
		}

		verdict, err := s.evaluate(ctx, cand, req, now)
		if err != nil {
			return nil, err
		}

		if !verdict.Eligible {
			s.recordSkip(ctx, result, cand, verdict)
			continue
		}

		dispatchID, err := s.dispatchRepo.GetNextID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to generate dispatch ID: %w", err)
		}

		d := &secondary.DispatchRecord{
			ID:             dispatchID,
			RegistrationID: cand.ID,
			MemberID:       cand.MemberID,
			RequestID:      req.ID,
			EmployerID:     req.EmployerID,
			StartDate:      req.StartDate,
		}
		act := &secondary.ActivityRecord{
			RegistrationID: cand.ID,
			MemberID:       cand.MemberID,
			BookID:         cand.BookID,
			Event:          secondary.EventDispatch,
			Detail:         fmt.Sprintf("dispatch %s to %s for request %s", dispatchID, req.EmployerID, req.ID),
			OccurredAt:     now,
		}

		err = s.dispatchRepo.Commit(ctx, cand, d, act)
		if errors.Is(err, secondary.ErrVersionConflict) {
			// Another pass took this candidate; they are no longer
			// eligible. Move on, never retry the same candidate.
			metrics.VersionConflicts.Inc()
			s.recordSkip(ctx, result, cand, eligibility.Result{Reason: "conflict"})
			continue
		}
		if err != nil {
			return nil, err
		}

		metrics.DispatchesCommitted.WithLabelValues(req.BookID).Inc()
		result.Dispatches = append(result.Dispatches, recordToDispatch(d))
		needed--
	}

	total := committed + len(result.Dispatches)
	switch {
	case total >= req.Quantity:
		result.Filled = true
		if err := s.requestRepo.UpdateStatus(ctx, req.ID, secondary.RequestFilled); err != nil {
			return nil, err
		}
	case total > 0:
		// Partial fulfillment is a normal terminal state, re-queried later
		// by operators; never an error.
		metrics.PartialFulfillments.Inc()
		if err := s.requestRepo.UpdateStatus(ctx, req.ID, secondary.RequestPartial); err != nil {
			return nil, err
		}
		s.log.Info("request partially filled",
			zap.String("request", req.ID),
			zap.Int("dispatched", total),
			zap.Int("requested", req.Quantity),
		)
	}

	return result, nil
}

// evaluate loads the candidate's exemptions and applicable blackouts and
// runs the pure eligibility check.
func (s *DispatchServiceImpl) evaluate(ctx context.Context, cand *secondary.RegistrationRecord, req *secondary.RequestRecord, now time.Time) (eligibility.Result, error) {
	exemptions, err := s.exemptRepo.ListActive(ctx, cand.MemberID, cand.BookID, now)
	if err != nil {
		return eligibility.Result{}, err
	}
	blackouts, err := s.blackoutRepo.ListActive(ctx, cand.MemberID, now)
	if err != nil {
		return eligibility.Result{}, err
	}

	in := eligibility.Input{
		Status: cand.Status,
		ByName: req.NamedMemberID != "",
		Now:    now,
	}
	for _, e := range exemptions {
		in.Exemptions = append(in.Exemptions, eligibility.Window{Start: e.StartsOn, End: e.EndsOn})
	}
	for _, b := range blackouts {
		// Employer-specific blackouts bar any match to that employer;
		// employer-less ones bar by-name requests only.
		applies := b.EmployerID == req.EmployerID || (b.EmployerID == "" && req.NamedMemberID != "")
		if applies {
			in.Blackouts = append(in.Blackouts, eligibility.Window{Start: b.StartsOn, End: b.EndsOn})
		}
	}

	return eligibility.Evaluate(in), nil
}

// recordSkip logs a passed-over candidate for transparency: an activity row
// at informational level, never an error.
func (s *DispatchServiceImpl) recordSkip(ctx context.Context, result *primary.AssignResult, cand *secondary.RegistrationRecord, verdict eligibility.Result) {
	metrics.CandidateSkips.WithLabelValues(string(verdict.Reason)).Inc()
	result.Skips = append(result.Skips, primary.CandidateSkip{
		RegistrationID: cand.ID,
		MemberID:       cand.MemberID,
		Reason:         string(verdict.Reason),
		Until:          verdict.Until,
	})

	act := &secondary.ActivityRecord{
		RegistrationID: cand.ID,
		MemberID:       cand.MemberID,
		BookID:         cand.BookID,
		Event:          secondary.EventSkip,
		Detail:         fmt.Sprintf("skipped for request %s: %s", result.RequestID, verdict.Reason),
		OccurredAt:     s.clock.Now(),
	}
	if err := s.activityRepo.Append(ctx, act); err != nil {
		s.log.Warn("failed to record skip activity",
			zap.String("registration", cand.ID),
			zap.Error(err),
		)
	}
}

// CancelRequest cancels the unfilled remainder of a request. Committed
// dispatches stay committed; reversing one requires an explicit termination.
func (s *DispatchServiceImpl) CancelRequest(ctx context.Context, requestID string) error {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	if req.Status == secondary.RequestFilled || req.Status == secondary.RequestCancelled {
		return fmt.Errorf("request %s (status: %s): %w", req.ID, req.Status, secondary.ErrRequestClosed)
	}

	if err := s.requestRepo.UpdateStatus(ctx, req.ID, secondary.RequestCancelled); err != nil {
		return err
	}

	s.log.Info("request cancelled", zap.String("request", req.ID))
	return nil
}

// Terminate closes a dispatch. Short calls return the member to their
// original book position; quit and discharge trigger the separation
// cascade; ordinary completion closes the registration (the member must
// re-register for further work).
func (s *DispatchServiceImpl) Terminate(ctx context.Context, in primary.TerminateInput) (*primary.Dispatch, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid termination: %w", err)
	}

	d, err := s.dispatchRepo.GetByID(ctx, in.DispatchID)
	if err != nil {
		return nil, err
	}
	if d.Status != "active" {
		return nil, fmt.Errorf("dispatch %s already terminated: %w", d.ID, secondary.ErrRequestClosed)
	}

	shortCall := penalty.IsShortCall(d.StartDate, in.EndDate, s.rules.ShortCallDays)
	reason := in.Reason
	if reason == "completed" && shortCall {
		reason = "short_call"
	}

	if err := s.dispatchRepo.Terminate(ctx, d.ID, reason, in.EndDate, shortCall); err != nil {
		return nil, err
	}

	switch reason {
	case "quit", "discharged":
		kind := "quit"
		if reason == "discharged" {
			kind = "discharge"
		}
		if _, err := s.separations.ReportSeparation(ctx, d.ID, kind); err != nil {
			return nil, err
		}
	case "short_call":
		// Back to the book at the original position.
		reg, err := s.regRepo.GetByID(ctx, d.RegistrationID)
		if err != nil {
			return nil, err
		}
		act := &secondary.ActivityRecord{
			RegistrationID: reg.ID,
			MemberID:       reg.MemberID,
			BookID:         reg.BookID,
			Event:          secondary.EventReinstate,
			Detail:         fmt.Sprintf("short call return from dispatch %s", d.ID),
			OccurredAt:     s.clock.Now(),
		}
		if err := s.regRepo.UpdateStatus(ctx, reg.ID, reg.Version, "active", "", act); err != nil {
			return nil, err
		}
	default:
		// Completed (or other): the registration is consumed.
		reg, err := s.regRepo.GetByID(ctx, d.RegistrationID)
		if err != nil {
			return nil, err
		}
		act := &secondary.ActivityRecord{
			RegistrationID: reg.ID,
			MemberID:       reg.MemberID,
			BookID:         reg.BookID,
			Event:          secondary.EventRollOff,
			Detail:         fmt.Sprintf("dispatch %s %s", d.ID, reason),
			OccurredAt:     s.clock.Now(),
		}
		if err := s.regRepo.UpdateStatus(ctx, reg.ID, reg.Version, "rolled_off", reason, act); err != nil {
			return nil, err
		}
	}

	s.log.Info("dispatch terminated",
		zap.String("dispatch", d.ID),
		zap.String("reason", reason),
		zap.Bool("short_call", shortCall),
	)

	updated, err := s.dispatchRepo.GetByID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	return recordToDispatch(updated), nil
}

// GetRequest retrieves a labor request with its dispatch tally.
func (s *DispatchServiceImpl) GetRequest(ctx context.Context, requestID string) (*primary.LaborRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	committed, err := s.requestRepo.CountActiveDispatches(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return recordToRequest(req, committed), nil
}

// Ensure DispatchServiceImpl implements the interface
var _ primary.DispatchService = (*DispatchServiceImpl)(nil)
