package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/example/hall/internal/core/penalty"
	"github.com/example/hall/internal/core/queue"
	"github.com/example/hall/internal/core/window"
	"github.com/example/hall/internal/ports/primary"
	"github.com/example/hall/internal/ports/secondary"
)

// PenaltyServiceImpl implements the PenaltyService interface.
type PenaltyServiceImpl struct {
	regRepo        secondary.RegistrationRepository
	dispatchRepo   secondary.DispatchRepository
	exemptRepo     secondary.ExemptionRepository
	blackoutRepo   secondary.BlackoutRepository
	suspensionRepo secondary.SuspensionRepository
	activityRepo   secondary.ActivityRepository
	members        secondary.MemberDirectory
	clock          window.Clock
	rules          Rules
	validate       *validator.Validate
	log            *zap.Logger
}

// NewPenaltyService creates a new PenaltyService with injected dependencies.
func NewPenaltyService(
	regRepo secondary.RegistrationRepository,
	dispatchRepo secondary.DispatchRepository,
	exemptRepo secondary.ExemptionRepository,
	blackoutRepo secondary.BlackoutRepository,
	suspensionRepo secondary.SuspensionRepository,
	activityRepo secondary.ActivityRepository,
	members secondary.MemberDirectory,
	clock window.Clock,
	rules Rules,
	log *zap.Logger,
) *PenaltyServiceImpl {
	return &PenaltyServiceImpl{
		regRepo:        regRepo,
		dispatchRepo:   dispatchRepo,
		exemptRepo:     exemptRepo,
		blackoutRepo:   blackoutRepo,
		suspensionRepo: suspensionRepo,
		activityRepo:   activityRepo,
		members:        members,
		clock:          clock,
		rules:          rules,
		validate:       validator.New(),
		log:            log,
	}
}

// RecordCheckMark records a missed-obligation event against a registration.
// An exemption covering the event date suppresses the mark entirely; the
// final mark rolls the registration off.
func (s *PenaltyServiceImpl) RecordCheckMark(ctx context.Context, registrationID string, eventDate time.Time) (*primary.CheckMarkResult, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.Status != queue.StatusActive {
		return nil, fmt.Errorf("registration %s (status: %s): %w", reg.ID, reg.Status, secondary.ErrNotActive)
	}

	exemptions, err := s.exemptRepo.ListActive(ctx, reg.MemberID, reg.BookID, eventDate)
	if err != nil {
		return nil, err
	}

	outcome := penalty.DecideMark(penalty.MarkContext{
		CurrentCount:    reg.CheckMarks,
		Limit:           s.rules.CheckMarkLimit,
		EventDate:       eventDate,
		ExemptionCovers: len(exemptions) > 0,
	})

	result := &primary.CheckMarkResult{
		RegistrationID: reg.ID,
		Suppressed:     outcome.Suppressed,
		CheckMarks:     outcome.NewCount,
		RolledOff:      outcome.RollOff,
	}

	if outcome.Suppressed {
		// The mark is never recorded, but the suppression is: auditors need
		// to see the exemption did its job.
		act := &secondary.ActivityRecord{
			RegistrationID: reg.ID,
			MemberID:       reg.MemberID,
			BookID:         reg.BookID,
			Event:          secondary.EventCheckMarkSuppressed,
			Detail:         fmt.Sprintf("check mark on %s suppressed by exemption %s", eventDate.Format("2006-01-02"), exemptions[0].ID),
			OccurredAt:     s.clock.Now(),
		}
		if err := s.activityRepo.Append(ctx, act); err != nil {
			return nil, err
		}
		s.log.Info("check mark suppressed",
			zap.String("registration", reg.ID),
			zap.String("exemption", exemptions[0].ID),
		)
		return result, nil
	}

	act := &secondary.ActivityRecord{
		RegistrationID: reg.ID,
		MemberID:       reg.MemberID,
		BookID:         reg.BookID,
		Event:          secondary.EventCheckMark,
		Detail:         fmt.Sprintf("check mark %d of %d for %s", outcome.NewCount, s.rules.CheckMarkLimit, eventDate.Format("2006-01-02")),
		OccurredAt:     s.clock.Now(),
	}
	if err := s.regRepo.SetCheckMarks(ctx, reg.ID, reg.Version, outcome.NewCount, act); err != nil {
		return nil, err
	}

	if outcome.RollOff {
		rolled, err := s.regRepo.GetByID(ctx, reg.ID)
		if err != nil {
			return nil, err
		}
		rollAct := &secondary.ActivityRecord{
			RegistrationID: reg.ID,
			MemberID:       reg.MemberID,
			BookID:         reg.BookID,
			Event:          secondary.EventRollOff,
			Detail:         fmt.Sprintf("check mark limit (%d) reached", s.rules.CheckMarkLimit),
			OccurredAt:     s.clock.Now(),
		}
		if err := s.regRepo.UpdateStatus(ctx, reg.ID, rolled.Version, queue.StatusRolledOff, "check_marks", rollAct); err != nil {
			return nil, err
		}
		s.log.Warn("registration rolled off at check mark limit",
			zap.String("registration", reg.ID),
			zap.String("member", reg.MemberID),
		)
	}

	return result, nil
}

// ReportSeparation applies the quit/discharge cascade for a dispatch: every
// live registration of the member rolls off and a blackout bars by-name
// requests from the separating employer.
func (s *PenaltyServiceImpl) ReportSeparation(ctx context.Context, dispatchID, kind string) (*primary.SeparationResult, error) {
	if kind != string(penalty.SeparationQuit) && kind != string(penalty.SeparationDischarge) {
		return nil, fmt.Errorf("invalid separation kind %q", kind)
	}

	d, err := s.dispatchRepo.GetByID(ctx, dispatchID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	outcome := penalty.DecideSeparation(penalty.SeparationContext{
		Kind:             penalty.SeparationKind(kind),
		EmployerID:       d.EmployerID,
		Now:              now,
		BlackoutDuration: s.rules.SeparationBlackout,
	})

	result := &primary.SeparationResult{MemberID: d.MemberID}

	live, err := s.regRepo.ListLiveByMember(ctx, d.MemberID)
	if err != nil {
		return nil, err
	}
	for _, reg := range live {
		act := &secondary.ActivityRecord{
			RegistrationID: reg.ID,
			MemberID:       reg.MemberID,
			BookID:         reg.BookID,
			Event:          secondary.EventRollOff,
			Detail:         fmt.Sprintf("%s from %s (dispatch %s)", kind, d.EmployerID, d.ID),
			OccurredAt:     now,
		}
		if err := s.regRepo.UpdateStatus(ctx, reg.ID, reg.Version, queue.StatusRolledOff, outcome.RollOffReason, act); err != nil {
			return nil, err
		}
		result.RolledOff = append(result.RolledOff, reg.ID)
	}

	blackoutID, err := s.blackoutRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate blackout ID: %w", err)
	}
	blackout := &secondary.BlackoutRecord{
		ID:         blackoutID,
		MemberID:   d.MemberID,
		EmployerID: d.EmployerID,
		Reason:     kind,
		StartsOn:   outcome.BlackoutFrom,
		EndsOn:     outcome.BlackoutUntil,
	}
	if err := s.blackoutRepo.Create(ctx, blackout); err != nil {
		return nil, err
	}
	result.BlackoutID = blackoutID
	result.BlackoutUntil = outcome.BlackoutUntil

	s.log.Warn("separation cascade applied",
		zap.String("member", d.MemberID),
		zap.String("kind", kind),
		zap.Int("rolled_off", len(result.RolledOff)),
		zap.Time("blackout_until", outcome.BlackoutUntil),
	)

	return result, nil
}

// GrantExemption opens a time-bounded exemption for a (member, book).
func (s *PenaltyServiceImpl) GrantExemption(ctx context.Context, in primary.GrantExemptionInput) (*primary.Exemption, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid exemption: %w", err)
	}

	if _, err := s.members.GetMember(ctx, in.MemberID); err != nil {
		return nil, err
	}

	nextID, err := s.exemptRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate exemption ID: %w", err)
	}

	record := &secondary.ExemptionRecord{
		ID:       nextID,
		MemberID: in.MemberID,
		BookID:   in.BookID,
		Reason:   in.Reason,
		StartsOn: in.StartsOn,
		EndsOn:   in.EndsOn,
	}
	if err := s.exemptRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	act := &secondary.ActivityRecord{
		MemberID:   in.MemberID,
		BookID:     in.BookID,
		Event:      secondary.EventExemptionGranted,
		Detail:     fmt.Sprintf("exemption %s (%s) %s through %s", nextID, in.Reason, in.StartsOn.Format("2006-01-02"), in.EndsOn.Format("2006-01-02")),
		OccurredAt: s.clock.Now(),
	}
	if err := s.activityRepo.Append(ctx, act); err != nil {
		return nil, err
	}

	s.log.Info("exemption granted",
		zap.String("exemption", nextID),
		zap.String("member", in.MemberID),
		zap.String("book", in.BookID),
	)

	return &primary.Exemption{
		ID:       record.ID,
		MemberID: record.MemberID,
		BookID:   record.BookID,
		Reason:   record.Reason,
		StartsOn: record.StartsOn,
		EndsOn:   record.EndsOn,
	}, nil
}

// RevokeExemption closes an exemption early.
func (s *PenaltyServiceImpl) RevokeExemption(ctx context.Context, exemptionID string) error {
	if err := s.exemptRepo.Revoke(ctx, exemptionID); err != nil {
		return err
	}

	act := &secondary.ActivityRecord{
		Event:      secondary.EventExemptionRevoked,
		Detail:     fmt.Sprintf("exemption %s revoked", exemptionID),
		OccurredAt: s.clock.Now(),
	}
	if err := s.activityRepo.Append(ctx, act); err != nil {
		return err
	}

	s.log.Info("exemption revoked", zap.String("exemption", exemptionID))
	return nil
}

// ImposeBidSuspension starts a bidding suspension for a member. The member
// stays on every book; only the bid ledger refuses them.
func (s *PenaltyServiceImpl) ImposeBidSuspension(ctx context.Context, memberID string, from time.Time) (time.Time, error) {
	nextID, err := s.suspensionRepo.GetNextID(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to generate suspension ID: %w", err)
	}

	until := from.Add(s.rules.BidSuspension)
	record := &secondary.SuspensionRecord{
		ID:       nextID,
		MemberID: memberID,
		Reason:   fmt.Sprintf("%d bid rejections within rolling window", s.rules.BidRejectionLimit),
		StartsOn: from,
		EndsOn:   until,
	}
	if err := s.suspensionRepo.Create(ctx, record); err != nil {
		return time.Time{}, err
	}

	act := &secondary.ActivityRecord{
		MemberID:   memberID,
		Event:      secondary.EventBidSuspension,
		Detail:     fmt.Sprintf("suspension %s through %s", nextID, until.Format("2006-01-02")),
		OccurredAt: s.clock.Now(),
	}
	if err := s.activityRepo.Append(ctx, act); err != nil {
		return time.Time{}, err
	}

	return until, nil
}

// Ensure PenaltyServiceImpl implements the interface
var _ primary.PenaltyService = (*PenaltyServiceImpl)(nil)
