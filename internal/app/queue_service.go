package app

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/example/hall/internal/core/queue"
	"github.com/example/hall/internal/core/window"
	"github.com/example/hall/internal/ports/primary"
	"github.com/example/hall/internal/ports/secondary"
)

// QueueServiceImpl implements the QueueService interface.
type QueueServiceImpl struct {
	regRepo  secondary.RegistrationRepository
	bookRepo secondary.BookRepository
	members  secondary.MemberDirectory
	clock    window.Clock
	validate *validator.Validate
	log      *zap.Logger
}

// NewQueueService creates a new QueueService with injected dependencies.
func NewQueueService(
	regRepo secondary.RegistrationRepository,
	bookRepo secondary.BookRepository,
	members secondary.MemberDirectory,
	clock window.Clock,
	log *zap.Logger,
) *QueueServiceImpl {
	return &QueueServiceImpl{
		regRepo:  regRepo,
		bookRepo: bookRepo,
		members:  members,
		clock:    clock,
		validate: validator.New(),
		log:      log,
	}
}

// Register places a member on a book tier with a fresh sort key.
func (s *QueueServiceImpl) Register(ctx context.Context, req primary.RegisterRequest) (*primary.Registration, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid registration request: %w", err)
	}

	memberExists := true
	if _, err := s.members.GetMember(ctx, req.MemberID); err != nil {
		memberExists = false
	}

	book, err := s.bookRepo.GetByID(ctx, req.BookID)
	bookExists := err == nil
	tierCount := 0
	if bookExists {
		tierCount = book.TierCount
	}

	hasLive, err := s.regRepo.HasLive(ctx, req.MemberID, req.BookID, req.Tier)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing registration: %w", err)
	}

	guard := queue.CanRegister(queue.RegisterContext{
		MemberID:     req.MemberID,
		MemberExists: memberExists,
		BookID:       req.BookID,
		BookExists:   bookExists,
		Tier:         req.Tier,
		TierCount:    tierCount,
		HasLive:      hasLive,
	})
	if !guard.Allowed {
		if hasLive {
			return nil, fmt.Errorf("%s: %w", guard.Reason, secondary.ErrDuplicateRegistration)
		}
		return nil, guard.Error()
	}

	nextID, err := s.regRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate registration ID: %w", err)
	}

	now := s.clock.Now()
	record := &secondary.RegistrationRecord{
		ID:        nextID,
		MemberID:  req.MemberID,
		BookID:    req.BookID,
		Tier:      req.Tier,
		DaySerial: queue.DaySerial(now),
	}

	act := &secondary.ActivityRecord{
		RegistrationID: nextID,
		MemberID:       req.MemberID,
		BookID:         req.BookID,
		Event:          secondary.EventRegister,
		Detail:         fmt.Sprintf("tier %d", req.Tier),
		OccurredAt:     now,
	}

	if err := s.regRepo.Create(ctx, record, act); err != nil {
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	s.log.Info("member registered",
		zap.String("registration", nextID),
		zap.String("member", req.MemberID),
		zap.String("book", req.BookID),
		zap.Int("tier", req.Tier),
	)

	created, err := s.regRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created registration: %w", err)
	}

	return recordToRegistration(created), nil
}

// ListCandidates returns the active queue for a book tier in dispatch order.
func (s *QueueServiceImpl) ListCandidates(ctx context.Context, bookID string, tier int) ([]*primary.Registration, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return nil, err
	}

	records, err := s.regRepo.ListActiveOrdered(ctx, bookID, tier)
	if err != nil {
		return nil, err
	}

	regs := make([]*primary.Registration, 0, len(records))
	for _, r := range records {
		regs = append(regs, recordToRegistration(r))
	}
	return regs, nil
}

// ReSign resets the registration's sort key to now (the 30-day cycle).
func (s *QueueServiceImpl) ReSign(ctx context.Context, registrationID string) (*primary.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	guard := queue.CanReSign(queue.ReSignContext{
		RegistrationID: registrationID,
		Status:         reg.Status,
	})
	if !guard.Allowed {
		return nil, fmt.Errorf("%s: %w", guard.Reason, secondary.ErrNotActive)
	}

	now := s.clock.Now()
	act := &secondary.ActivityRecord{
		RegistrationID: reg.ID,
		MemberID:       reg.MemberID,
		BookID:         reg.BookID,
		Event:          secondary.EventReSign,
		OccurredAt:     now,
	}

	if err := s.regRepo.ReSign(ctx, reg.ID, reg.Version, queue.DaySerial(now), act); err != nil {
		return nil, err
	}

	s.log.Info("registration re-signed",
		zap.String("registration", reg.ID),
		zap.String("member", reg.MemberID),
	)

	updated, err := s.regRepo.GetByID(ctx, reg.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch re-signed registration: %w", err)
	}

	return recordToRegistration(updated), nil
}

// RollOff permanently removes the registration from its book's active queue.
// Idempotent: rolling off a terminal registration succeeds without writing
// anything, so retries are harmless.
func (s *QueueServiceImpl) RollOff(ctx context.Context, registrationID, reason string) error {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return err
	}

	if queue.DecideRollOff(queue.RollOffContext{
		RegistrationID: registrationID,
		Status:         reg.Status,
	}) == queue.RollOffNoop {
		s.log.Info("roll-off no-op on terminal registration",
			zap.String("registration", reg.ID),
			zap.String("status", reg.Status),
		)
		return nil
	}

	act := &secondary.ActivityRecord{
		RegistrationID: reg.ID,
		MemberID:       reg.MemberID,
		BookID:         reg.BookID,
		Event:          secondary.EventRollOff,
		Detail:         reason,
		OccurredAt:     s.clock.Now(),
	}

	if err := s.regRepo.UpdateStatus(ctx, reg.ID, reg.Version, queue.StatusRolledOff, reason, act); err != nil {
		return err
	}

	s.log.Info("registration rolled off",
		zap.String("registration", reg.ID),
		zap.String("member", reg.MemberID),
		zap.String("reason", reason),
	)
	return nil
}

// Resign closes the registration at the member's request.
func (s *QueueServiceImpl) Resign(ctx context.Context, registrationID string) error {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return err
	}

	if reg.Status != queue.StatusActive {
		return fmt.Errorf("can only resign active registrations (current status: %s): %w", reg.Status, secondary.ErrNotActive)
	}

	act := &secondary.ActivityRecord{
		RegistrationID: reg.ID,
		MemberID:       reg.MemberID,
		BookID:         reg.BookID,
		Event:          secondary.EventResign,
		OccurredAt:     s.clock.Now(),
	}

	return s.regRepo.UpdateStatus(ctx, reg.ID, reg.Version, queue.StatusResigned, "", act)
}

// Reinstate returns a rolled-off registration to the book with a fresh
// sort key; the member goes to the back of the queue.
func (s *QueueServiceImpl) Reinstate(ctx context.Context, registrationID string) (*primary.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	guard := queue.CanReinstate(queue.ReSignContext{
		RegistrationID: registrationID,
		Status:         reg.Status,
	})
	if !guard.Allowed {
		return nil, guard.Error()
	}

	now := s.clock.Now()
	act := &secondary.ActivityRecord{
		RegistrationID: reg.ID,
		MemberID:       reg.MemberID,
		BookID:         reg.BookID,
		Event:          secondary.EventReinstate,
		OccurredAt:     now,
	}

	if err := s.regRepo.UpdateStatus(ctx, reg.ID, reg.Version, queue.StatusActive, "", act); err != nil {
		return nil, err
	}

	// Back of the queue: re-sign with today's key.
	updated, err := s.regRepo.GetByID(ctx, reg.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reinstated registration: %w", err)
	}
	resignAct := &secondary.ActivityRecord{
		RegistrationID: reg.ID,
		MemberID:       reg.MemberID,
		BookID:         reg.BookID,
		Event:          secondary.EventReSign,
		Detail:         "reinstatement",
		OccurredAt:     now,
	}
	if err := s.regRepo.ReSign(ctx, reg.ID, updated.Version, queue.DaySerial(now), resignAct); err != nil {
		return nil, err
	}

	s.log.Info("registration reinstated",
		zap.String("registration", reg.ID),
		zap.String("member", reg.MemberID),
	)

	final, err := s.regRepo.GetByID(ctx, reg.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reinstated registration: %w", err)
	}
	return recordToRegistration(final), nil
}

// GetRegistration retrieves one registration.
func (s *QueueServiceImpl) GetRegistration(ctx context.Context, registrationID string) (*primary.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	return recordToRegistration(reg), nil
}

// Ensure QueueServiceImpl implements the interface
var _ primary.QueueService = (*QueueServiceImpl)(nil)
