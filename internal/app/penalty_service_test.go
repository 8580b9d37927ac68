package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/hall/internal/core/queue"
	"github.com/example/hall/internal/ports/primary"
	"github.com/example/hall/internal/ports/secondary"
)

type penaltyFixture struct {
	svc         *PenaltyServiceImpl
	regs        *mockRegistrationRepo
	disp        *mockDispatchRepo
	exempts     *mockExemptionRepo
	blackouts   *mockBlackoutRepo
	suspensions *mockSuspensionRepo
	activity    *mockActivityRepo
	clock       *fakeClock
}

func newPenaltyFixture() *penaltyFixture {
	f := &penaltyFixture{
		regs:        newMockRegistrationRepo(),
		exempts:     newMockExemptionRepo(),
		blackouts:   newMockBlackoutRepo(),
		suspensions: newMockSuspensionRepo(),
		activity:    newMockActivityRepo(),
		clock:       &fakeClock{now: time.Date(2026, time.August, 30, 10, 0, 0, 0, time.UTC)},
	}
	f.disp = newMockDispatchRepo(f.regs)
	f.svc = NewPenaltyService(
		f.regs, f.disp, f.exempts, f.blackouts, f.suspensions, f.activity,
		newMockMemberDirectory("MBR-001"), f.clock, DefaultRules(), zap.NewNop(),
	)
	return f
}

func TestRecordCheckMark_IncrementsCount(t *testing.T) {
	f := newPenaltyFixture()
	f.regs.add(&secondary.RegistrationRecord{
		ID: "REG-001", MemberID: "MBR-001", BookID: "BOOK-001", Tier: 1,
	})

	result, err := f.svc.RecordCheckMark(context.Background(), "REG-001", f.clock.now)
	require.NoError(t, err)

	assert.False(t, result.Suppressed)
	assert.False(t, result.RolledOff)
	assert.Equal(t, 1, result.CheckMarks)
	assert.Equal(t, 1, f.regs.regs["REG-001"].CheckMarks)
	assert.Equal(t, secondary.EventCheckMark, f.regs.lastEvent())
}

func TestRecordCheckMark_ThirdMarkRollsOff(t *testing.T) {
	f := newPenaltyFixture()
	f.regs.add(&secondary.RegistrationRecord{
		ID: "REG-001", MemberID: "MBR-001", BookID: "BOOK-001", Tier: 1,
		CheckMarks: 2,
	})

	result, err := f.svc.RecordCheckMark(context.Background(), "REG-001", f.clock.now)
	require.NoError(t, err)

	assert.True(t, result.RolledOff)
	assert.Equal(t, 3, result.CheckMarks)
	assert.Equal(t, queue.StatusRolledOff, f.regs.regs["REG-001"].Status)
	assert.Equal(t, "check_marks", f.regs.regs["REG-001"].RollOffReason)
}

func TestRecordCheckMark_ExemptionSuppresses(t *testing.T) {
	f := newPenaltyFixture()
	f.regs.add(&secondary.RegistrationRecord{
		ID: "REG-001", MemberID: "MBR-001", BookID: "BOOK-001", Tier: 1,
		CheckMarks: 2,
	})
	f.exempts.records = append(f.exempts.records, &secondary.ExemptionRecord{
		ID: "EXM-001", MemberID: "MBR-001", BookID: "BOOK-001",
		StartsOn: f.clock.now.AddDate(0, 0, -5),
		EndsOn:   f.clock.now.AddDate(0, 0, 5),
	})

	result, err := f.svc.RecordCheckMark(context.Background(), "REG-001", f.clock.now)
	require.NoError(t, err)

	assert.True(t, result.Suppressed)
	assert.False(t, result.RolledOff)
	// The count never moves, even at the limit.
	assert.Equal(t, 2, f.regs.regs["REG-001"].CheckMarks)
	assert.Equal(t, queue.StatusActive, f.regs.regs["REG-001"].Status)

	// Auditors still see the suppression.
	require.Len(t, f.activity.appended, 1)
	assert.Equal(t, secondary.EventCheckMarkSuppressed, f.activity.appended[0].Event)
}

func TestRecordCheckMark_RequiresActiveRegistration(t *testing.T) {
	f := newPenaltyFixture()
	f.regs.add(&secondary.RegistrationRecord{
		ID: "REG-001", MemberID: "MBR-001", BookID: "BOOK-001", Tier: 1,
		Status: queue.StatusDispatched,
	})

	_, err := f.svc.RecordCheckMark(context.Background(), "REG-001", f.clock.now)
	assert.ErrorIs(t, err, secondary.ErrNotActive)
}

func TestReportSeparation_QuitCascades(t *testing.T) {
	f := newPenaltyFixture()
	f.regs.add(&secondary.RegistrationRecord{
		ID: "REG-001", MemberID: "MBR-001", BookID: "BOOK-001", Tier: 1,
		Status: queue.StatusDispatched,
	})
	f.regs.add(&secondary.RegistrationRecord{
		ID: "REG-002", MemberID: "MBR-001", BookID: "BOOK-002", Tier: 1,
	})
	f.disp.add(&secondary.DispatchRecord{
		ID: "DSP-001", RegistrationID: "REG-001", MemberID: "MBR-001",
		RequestID: "REQ-001", EmployerID: "EMP-001",
	})

	result, err := f.svc.ReportSeparation(context.Background(), "DSP-001", "quit")
	require.NoError(t, err)

	// Every live registration rolls off, not just the dispatched one.
	assert.ElementsMatch(t, []string{"REG-001", "REG-002"}, result.RolledOff)
	assert.Equal(t, queue.StatusRolledOff, f.regs.regs["REG-001"].Status)
	assert.Equal(t, queue.StatusRolledOff, f.regs.regs["REG-002"].Status)
	assert.Equal(t, "quit", f.regs.regs["REG-002"].RollOffReason)

	require.Len(t, f.blackouts.records, 1)
	blk := f.blackouts.records[0]
	assert.Equal(t, "EMP-001", blk.EmployerID)
	assert.Equal(t, f.clock.now.Add(DefaultRules().SeparationBlackout), blk.EndsOn)
	assert.Equal(t, blk.EndsOn, result.BlackoutUntil)
}

func TestReportSeparation_InvalidKind(t *testing.T) {
	f := newPenaltyFixture()

	_, err := f.svc.ReportSeparation(context.Background(), "DSP-001", "laid_off")
	assert.Error(t, err)
}

func TestGrantExemption_ValidatesRange(t *testing.T) {
	f := newPenaltyFixture()

	_, err := f.svc.GrantExemption(context.Background(), primary.GrantExemptionInput{
		MemberID: "MBR-001", BookID: "BOOK-001", Reason: "medical",
		StartsOn: f.clock.now,
		EndsOn:   f.clock.now.AddDate(0, 0, -1),
	})
	assert.Error(t, err)
}

func TestGrantAndRevokeExemption(t *testing.T) {
	f := newPenaltyFixture()

	got, err := f.svc.GrantExemption(context.Background(), primary.GrantExemptionInput{
		MemberID: "MBR-001", BookID: "BOOK-001", Reason: "medical",
		StartsOn: f.clock.now,
		EndsOn:   f.clock.now.AddDate(0, 0, 30),
	})
	require.NoError(t, err)
	assert.Equal(t, "EXM-001", got.ID)

	err = f.svc.RevokeExemption(context.Background(), got.ID)
	require.NoError(t, err)

	active, err := f.exempts.ListActive(context.Background(), "MBR-001", "BOOK-001", f.clock.now)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestImposeBidSuspension(t *testing.T) {
	f := newPenaltyFixture()
	from := f.clock.now

	until, err := f.svc.ImposeBidSuspension(context.Background(), "MBR-001", from)
	require.NoError(t, err)

	assert.Equal(t, from.Add(DefaultRules().BidSuspension), until)

	require.Len(t, f.suspensions.records, 1)
	assert.Equal(t, "MBR-001", f.suspensions.records[0].MemberID)
	assert.Equal(t, until, f.suspensions.records[0].EndsOn)

	require.Len(t, f.activity.appended, 1)
	assert.Equal(t, secondary.EventBidSuspension, f.activity.appended[0].Event)
}
