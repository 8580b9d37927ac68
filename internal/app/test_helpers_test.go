package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/example/hall/internal/core/queue"
	"github.com/example/hall/internal/core/window"
	"github.com/example/hall/internal/ports/primary"
	"github.com/example/hall/internal/ports/secondary"
)

// fakeClock pins the current time so window boundaries are testable.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// testAuthority builds an Authority with the default rule set: bidding
// 17:30-07:00, cutoff 15:00, a single "day" group at 08:30.
func testAuthority() *window.Authority {
	return window.New(window.Settings{
		BidOpen:  17*60 + 30,
		BidClose: 7 * 60,
		Cutoff:   15 * 60,
		Order: []window.BookGroup{
			{Name: "day", Start: 8*60 + 30},
		},
	})
}

// Ensure mockRegistrationRepo implements the interface
var _ secondary.RegistrationRepository = (*mockRegistrationRepo)(nil)

// mockRegistrationRepo implements secondary.RegistrationRepository for testing.
type mockRegistrationRepo struct {
	regs       map[string]*secondary.RegistrationRecord
	activities []*secondary.ActivityRecord
	nextID     int
	createErr  error
	getErr     error
	updateErr  error
}

func newMockRegistrationRepo() *mockRegistrationRepo {
	return &mockRegistrationRepo{regs: make(map[string]*secondary.RegistrationRecord)}
}

// add seeds a registration directly, bypassing the Create path.
func (m *mockRegistrationRepo) add(reg *secondary.RegistrationRecord) *secondary.RegistrationRecord {
	if reg.Status == "" {
		reg.Status = queue.StatusActive
	}
	m.regs[reg.ID] = reg
	return reg
}

func (m *mockRegistrationRepo) Create(ctx context.Context, reg *secondary.RegistrationRecord, act *secondary.ActivityRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	reg.Status = queue.StatusActive
	reg.TieBreak = 1
	for _, r := range m.regs {
		if r.BookID == reg.BookID && r.DaySerial == reg.DaySerial && r.TieBreak >= reg.TieBreak {
			reg.TieBreak = r.TieBreak + 1
		}
	}
	m.regs[reg.ID] = reg
	m.activities = append(m.activities, act)
	return nil
}

func (m *mockRegistrationRepo) GetByID(ctx context.Context, id string) (*secondary.RegistrationRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	reg, ok := m.regs[id]
	if !ok {
		return nil, fmt.Errorf("registration %s: %w", id, secondary.ErrNotFound)
	}
	out := *reg
	return &out, nil
}

func (m *mockRegistrationRepo) HasLive(ctx context.Context, memberID, bookID string, tier int) (bool, error) {
	for _, r := range m.regs {
		if r.MemberID == memberID && r.BookID == bookID && r.Tier == tier && !queue.IsTerminal(r.Status) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRegistrationRepo) ListActiveOrdered(ctx context.Context, bookID string, tier int) ([]*secondary.RegistrationRecord, error) {
	var out []*secondary.RegistrationRecord
	for _, r := range m.regs {
		if r.BookID == bookID && r.Tier == tier && r.Status == queue.StatusActive {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DaySerial != out[j].DaySerial {
			return out[i].DaySerial < out[j].DaySerial
		}
		if out[i].TieBreak != out[j].TieBreak {
			return out[i].TieBreak < out[j].TieBreak
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockRegistrationRepo) ListLiveByMember(ctx context.Context, memberID string) ([]*secondary.RegistrationRecord, error) {
	var out []*secondary.RegistrationRecord
	for _, r := range m.regs {
		if r.MemberID == memberID && !queue.IsTerminal(r.Status) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRegistrationRepo) ReSign(ctx context.Context, id string, version int64, daySerial int64, act *secondary.ActivityRecord) error {
	reg, ok := m.regs[id]
	if !ok {
		return fmt.Errorf("registration %s: %w", id, secondary.ErrNotFound)
	}
	if reg.Version != version {
		return fmt.Errorf("registration %s: %w", id, secondary.ErrVersionConflict)
	}
	reg.DaySerial = daySerial
	reg.Version++
	m.activities = append(m.activities, act)
	return nil
}

func (m *mockRegistrationRepo) UpdateStatus(ctx context.Context, id string, version int64, status, rollOffReason string, act *secondary.ActivityRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	reg, ok := m.regs[id]
	if !ok {
		return fmt.Errorf("registration %s: %w", id, secondary.ErrNotFound)
	}
	if reg.Version != version {
		return fmt.Errorf("registration %s: %w", id, secondary.ErrVersionConflict)
	}
	reg.Status = status
	reg.RollOffReason = rollOffReason
	reg.Version++
	m.activities = append(m.activities, act)
	return nil
}

func (m *mockRegistrationRepo) SetCheckMarks(ctx context.Context, id string, version int64, count int, act *secondary.ActivityRecord) error {
	reg, ok := m.regs[id]
	if !ok {
		return fmt.Errorf("registration %s: %w", id, secondary.ErrNotFound)
	}
	if reg.Version != version {
		return fmt.Errorf("registration %s: %w", id, secondary.ErrVersionConflict)
	}
	reg.CheckMarks = count
	reg.Version++
	m.activities = append(m.activities, act)
	return nil
}

func (m *mockRegistrationRepo) GetNextID(ctx context.Context) (string, error) {
	m.nextID++
	return fmt.Sprintf("REG-%03d", m.nextID), nil
}

// lastEvent returns the most recently recorded activity event name.
func (m *mockRegistrationRepo) lastEvent() string {
	if len(m.activities) == 0 {
		return ""
	}
	return m.activities[len(m.activities)-1].Event
}

// Ensure mockBookRepo implements the interface
var _ secondary.BookRepository = (*mockBookRepo)(nil)

// mockBookRepo implements secondary.BookRepository for testing.
type mockBookRepo struct {
	books map[string]*secondary.BookRecord
}

func newMockBookRepo() *mockBookRepo {
	return &mockBookRepo{books: map[string]*secondary.BookRecord{
		"BOOK-001": {ID: "BOOK-001", Name: "Inside Wiremen", Classification: "wireman", TierCount: 2, Group: "day", OnlineBidding: true},
	}}
}

func (m *mockBookRepo) GetByID(ctx context.Context, id string) (*secondary.BookRecord, error) {
	if b, ok := m.books[id]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("book %s: %w", id, secondary.ErrNotFound)
}

func (m *mockBookRepo) List(ctx context.Context) ([]*secondary.BookRecord, error) {
	var out []*secondary.BookRecord
	for _, b := range m.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockBookRepo) ListByGroup(ctx context.Context, group string) ([]*secondary.BookRecord, error) {
	var out []*secondary.BookRecord
	for _, b := range m.books {
		if b.Group == group {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Ensure mockRequestRepo implements the interface
var _ secondary.RequestRepository = (*mockRequestRepo)(nil)

// mockRequestRepo implements secondary.RequestRepository for testing.
type mockRequestRepo struct {
	requests  map[string]*secondary.RequestRecord
	active    map[string]int // request ID -> committed dispatch count
	nextID    int
	createErr error
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{
		requests: make(map[string]*secondary.RequestRecord),
		active:   make(map[string]int),
	}
}

func (m *mockRequestRepo) add(req *secondary.RequestRecord) *secondary.RequestRecord {
	if req.Status == "" {
		req.Status = secondary.RequestOpen
	}
	m.requests[req.ID] = req
	return req
}

func (m *mockRequestRepo) Create(ctx context.Context, req *secondary.RequestRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.requests[req.ID] = req
	return nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id string) (*secondary.RequestRecord, error) {
	if req, ok := m.requests[id]; ok {
		out := *req
		return &out, nil
	}
	return nil, fmt.Errorf("labor request %s: %w", id, secondary.ErrNotFound)
}

func (m *mockRequestRepo) ListScheduled(ctx context.Context, byDate time.Time, bookIDs []string) ([]*secondary.RequestRecord, error) {
	inBooks := func(id string) bool {
		if len(bookIDs) == 0 {
			return true
		}
		for _, b := range bookIDs {
			if b == id {
				return true
			}
		}
		return false
	}
	var out []*secondary.RequestRecord
	for _, r := range m.requests {
		open := r.Status == secondary.RequestOpen || r.Status == secondary.RequestPartial
		if open && !r.ScheduledFor.IsZero() && !r.ScheduledFor.After(byDate) && inBooks(r.BookID) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRequestRepo) UpdateStatus(ctx context.Context, id, status string) error {
	req, ok := m.requests[id]
	if !ok {
		return fmt.Errorf("labor request %s: %w", id, secondary.ErrNotFound)
	}
	req.Status = status
	return nil
}

func (m *mockRequestRepo) SetScheduledFor(ctx context.Context, id string, date time.Time) error {
	req, ok := m.requests[id]
	if !ok {
		return fmt.Errorf("labor request %s: %w", id, secondary.ErrNotFound)
	}
	req.ScheduledFor = date
	return nil
}

func (m *mockRequestRepo) CountActiveDispatches(ctx context.Context, requestID string) (int, error) {
	return m.active[requestID], nil
}

func (m *mockRequestRepo) GetNextID(ctx context.Context) (string, error) {
	m.nextID++
	return fmt.Sprintf("REQ-%03d", m.nextID), nil
}

// Ensure mockDispatchRepo implements the interface
var _ secondary.DispatchRepository = (*mockDispatchRepo)(nil)

// mockDispatchRepo implements secondary.DispatchRepository for testing.
type mockDispatchRepo struct {
	dispatches map[string]*secondary.DispatchRecord
	regs       *mockRegistrationRepo
	// conflictOn injects an optimistic-lock failure when committing the
	// given registration.
	conflictOn map[string]bool
	nextID     int
}

func newMockDispatchRepo(regs *mockRegistrationRepo) *mockDispatchRepo {
	return &mockDispatchRepo{
		dispatches: make(map[string]*secondary.DispatchRecord),
		regs:       regs,
		conflictOn: make(map[string]bool),
	}
}

func (m *mockDispatchRepo) add(d *secondary.DispatchRecord) *secondary.DispatchRecord {
	if d.Status == "" {
		d.Status = "active"
	}
	m.dispatches[d.ID] = d
	return d
}

func (m *mockDispatchRepo) Commit(ctx context.Context, reg *secondary.RegistrationRecord, d *secondary.DispatchRecord, act *secondary.ActivityRecord) error {
	if m.conflictOn[reg.ID] {
		return fmt.Errorf("registration %s: %w", reg.ID, secondary.ErrVersionConflict)
	}
	stored, ok := m.regs.regs[reg.ID]
	if !ok {
		return fmt.Errorf("registration %s: %w", reg.ID, secondary.ErrNotFound)
	}
	if stored.Version != reg.Version {
		return fmt.Errorf("registration %s: %w", reg.ID, secondary.ErrVersionConflict)
	}
	stored.Status = queue.StatusDispatched
	stored.Version++
	d.Status = "active"
	m.dispatches[d.ID] = d
	m.regs.activities = append(m.regs.activities, act)
	return nil
}

func (m *mockDispatchRepo) GetByID(ctx context.Context, id string) (*secondary.DispatchRecord, error) {
	if d, ok := m.dispatches[id]; ok {
		out := *d
		return &out, nil
	}
	return nil, fmt.Errorf("dispatch %s: %w", id, secondary.ErrNotFound)
}

func (m *mockDispatchRepo) Terminate(ctx context.Context, id, reason string, actualEnd time.Time, shortCall bool) error {
	d, ok := m.dispatches[id]
	if !ok || d.Status != "active" {
		return fmt.Errorf("dispatch %s: %w", id, secondary.ErrNotFound)
	}
	d.Status = "terminated"
	d.TerminationReason = reason
	d.ActualEnd = actualEnd
	d.ShortCall = shortCall
	return nil
}

func (m *mockDispatchRepo) ListByRequest(ctx context.Context, requestID string) ([]*secondary.DispatchRecord, error) {
	var out []*secondary.DispatchRecord
	for _, d := range m.dispatches {
		if d.RequestID == requestID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockDispatchRepo) GetNextID(ctx context.Context) (string, error) {
	m.nextID++
	return fmt.Sprintf("DSP-%03d", m.nextID), nil
}

// Ensure mockBidRepo implements the interface
var _ secondary.BidRepository = (*mockBidRepo)(nil)

// mockBidRepo implements secondary.BidRepository for testing.
type mockBidRepo struct {
	bids   map[string]*secondary.BidRecord
	nextID int
}

func newMockBidRepo() *mockBidRepo {
	return &mockBidRepo{bids: make(map[string]*secondary.BidRecord)}
}

func (m *mockBidRepo) add(b *secondary.BidRecord) *secondary.BidRecord {
	if b.Outcome == "" {
		b.Outcome = "pending"
	}
	m.bids[b.ID] = b
	return b
}

func (m *mockBidRepo) Create(ctx context.Context, b *secondary.BidRecord) error {
	m.bids[b.ID] = b
	return nil
}

func (m *mockBidRepo) GetByID(ctx context.Context, id string) (*secondary.BidRecord, error) {
	if b, ok := m.bids[id]; ok {
		out := *b
		return &out, nil
	}
	return nil, fmt.Errorf("bid %s: %w", id, secondary.ErrNotFound)
}

func (m *mockBidRepo) RecordOutcome(ctx context.Context, id, outcome string, decidedAt time.Time) error {
	b, ok := m.bids[id]
	if !ok || b.Outcome != "pending" {
		return fmt.Errorf("bid %s: %w", id, secondary.ErrNotFound)
	}
	b.Outcome = outcome
	b.DecidedAt = decidedAt
	return nil
}

func (m *mockBidRepo) CountRejectionsSince(ctx context.Context, memberID string, since time.Time) (int, error) {
	count := 0
	for _, b := range m.bids {
		if b.MemberID == memberID && b.Outcome == "rejected" && !b.DecidedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *mockBidRepo) ListByRequest(ctx context.Context, requestID string) ([]*secondary.BidRecord, error) {
	var out []*secondary.BidRecord
	for _, b := range m.bids {
		if b.RequestID == requestID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockBidRepo) GetNextID(ctx context.Context) (string, error) {
	m.nextID++
	return fmt.Sprintf("BID-%03d", m.nextID), nil
}

// Ensure mockExemptionRepo implements the interface
var _ secondary.ExemptionRepository = (*mockExemptionRepo)(nil)

// mockExemptionRepo implements secondary.ExemptionRepository for testing.
type mockExemptionRepo struct {
	records []*secondary.ExemptionRecord
	nextID  int
}

func newMockExemptionRepo() *mockExemptionRepo { return &mockExemptionRepo{} }

func (m *mockExemptionRepo) Create(ctx context.Context, e *secondary.ExemptionRecord) error {
	m.records = append(m.records, e)
	return nil
}

func (m *mockExemptionRepo) Revoke(ctx context.Context, id string) error {
	for _, e := range m.records {
		if e.ID == id && !e.Revoked {
			e.Revoked = true
			return nil
		}
	}
	return fmt.Errorf("exemption %s: %w", id, secondary.ErrNotFound)
}

func (m *mockExemptionRepo) ListActive(ctx context.Context, memberID, bookID string, on time.Time) ([]*secondary.ExemptionRecord, error) {
	var out []*secondary.ExemptionRecord
	for _, e := range m.records {
		if e.Revoked || e.MemberID != memberID {
			continue
		}
		if bookID != "" && e.BookID != "" && e.BookID != bookID {
			continue
		}
		if !on.Before(e.StartsOn) && !on.After(e.EndsOn) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockExemptionRepo) GetNextID(ctx context.Context) (string, error) {
	m.nextID++
	return fmt.Sprintf("EXM-%03d", m.nextID), nil
}

// Ensure mockBlackoutRepo implements the interface
var _ secondary.BlackoutRepository = (*mockBlackoutRepo)(nil)

// mockBlackoutRepo implements secondary.BlackoutRepository for testing.
type mockBlackoutRepo struct {
	records []*secondary.BlackoutRecord
	nextID  int
}

func newMockBlackoutRepo() *mockBlackoutRepo { return &mockBlackoutRepo{} }

func (m *mockBlackoutRepo) Create(ctx context.Context, b *secondary.BlackoutRecord) error {
	m.records = append(m.records, b)
	return nil
}

func (m *mockBlackoutRepo) ListActive(ctx context.Context, memberID string, on time.Time) ([]*secondary.BlackoutRecord, error) {
	var out []*secondary.BlackoutRecord
	for _, b := range m.records {
		if b.MemberID == memberID && !on.Before(b.StartsOn) && !on.After(b.EndsOn) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBlackoutRepo) GetNextID(ctx context.Context) (string, error) {
	m.nextID++
	return fmt.Sprintf("BLK-%03d", m.nextID), nil
}

// Ensure mockSuspensionRepo implements the interface
var _ secondary.SuspensionRepository = (*mockSuspensionRepo)(nil)

// mockSuspensionRepo implements secondary.SuspensionRepository for testing.
type mockSuspensionRepo struct {
	records []*secondary.SuspensionRecord
	nextID  int
}

func newMockSuspensionRepo() *mockSuspensionRepo { return &mockSuspensionRepo{} }

func (m *mockSuspensionRepo) Create(ctx context.Context, s *secondary.SuspensionRecord) error {
	m.records = append(m.records, s)
	return nil
}

func (m *mockSuspensionRepo) ActiveUntil(ctx context.Context, memberID string, on time.Time) (time.Time, error) {
	for _, s := range m.records {
		if s.MemberID == memberID && !on.Before(s.StartsOn) && on.Before(s.EndsOn) {
			return s.EndsOn, nil
		}
	}
	return time.Time{}, nil
}

func (m *mockSuspensionRepo) GetNextID(ctx context.Context) (string, error) {
	m.nextID++
	return fmt.Sprintf("SUS-%03d", m.nextID), nil
}

// Ensure mockActivityRepo implements the interface
var _ secondary.ActivityRepository = (*mockActivityRepo)(nil)

// mockActivityRepo implements secondary.ActivityRepository for testing.
type mockActivityRepo struct {
	appended []*secondary.ActivityRecord
}

func newMockActivityRepo() *mockActivityRepo { return &mockActivityRepo{} }

func (m *mockActivityRepo) Append(ctx context.Context, act *secondary.ActivityRecord) error {
	m.appended = append(m.appended, act)
	return nil
}

func (m *mockActivityRepo) List(ctx context.Context, filters secondary.ActivityFilters) ([]*secondary.ActivityRecord, error) {
	var out []*secondary.ActivityRecord
	for _, a := range m.appended {
		if filters.MemberID != "" && a.MemberID != filters.MemberID {
			continue
		}
		if filters.BookID != "" && a.BookID != filters.BookID {
			continue
		}
		out = append(out, a)
		if filters.Limit > 0 && len(out) == filters.Limit {
			break
		}
	}
	return out, nil
}

// Ensure mockMemberDirectory implements the interface
var _ secondary.MemberDirectory = (*mockMemberDirectory)(nil)

// mockMemberDirectory implements secondary.MemberDirectory for testing.
type mockMemberDirectory struct {
	members map[string]*secondary.MemberRecord
}

func newMockMemberDirectory(ids ...string) *mockMemberDirectory {
	m := &mockMemberDirectory{members: make(map[string]*secondary.MemberRecord)}
	for _, id := range ids {
		m.members[id] = &secondary.MemberRecord{ID: id, Name: "Member " + id, Classification: "wireman"}
	}
	return m
}

func (m *mockMemberDirectory) GetMember(ctx context.Context, id string) (*secondary.MemberRecord, error) {
	if rec, ok := m.members[id]; ok {
		return rec, nil
	}
	return nil, fmt.Errorf("member %s: %w", id, secondary.ErrNotFound)
}

// Ensure mockEmployerDirectory implements the interface
var _ secondary.EmployerDirectory = (*mockEmployerDirectory)(nil)

// mockEmployerDirectory implements secondary.EmployerDirectory for testing.
type mockEmployerDirectory struct {
	employers map[string]*secondary.EmployerRecord
}

func newMockEmployerDirectory(ids ...string) *mockEmployerDirectory {
	m := &mockEmployerDirectory{employers: make(map[string]*secondary.EmployerRecord)}
	for _, id := range ids {
		m.employers[id] = &secondary.EmployerRecord{ID: id, Name: "Employer " + id}
	}
	return m
}

func (m *mockEmployerDirectory) GetEmployer(ctx context.Context, id string) (*secondary.EmployerRecord, error) {
	if rec, ok := m.employers[id]; ok {
		return rec, nil
	}
	return nil, fmt.Errorf("employer %s: %w", id, secondary.ErrNotFound)
}

// Ensure mockPenaltyService implements the interface
var _ primary.PenaltyService = (*mockPenaltyService)(nil)

// mockPenaltyService implements primary.PenaltyService for the callers that
// feed it (dispatch terminations, bid rejections).
type mockPenaltyService struct {
	separations []string // dispatch IDs reported, in order
	suspensions []string // member IDs suspended, in order
	until       time.Time
}

func newMockPenaltyService() *mockPenaltyService { return &mockPenaltyService{} }

func (m *mockPenaltyService) RecordCheckMark(ctx context.Context, registrationID string, eventDate time.Time) (*primary.CheckMarkResult, error) {
	return &primary.CheckMarkResult{RegistrationID: registrationID}, nil
}

func (m *mockPenaltyService) ReportSeparation(ctx context.Context, dispatchID, kind string) (*primary.SeparationResult, error) {
	m.separations = append(m.separations, dispatchID+":"+kind)
	return &primary.SeparationResult{}, nil
}

func (m *mockPenaltyService) GrantExemption(ctx context.Context, req primary.GrantExemptionInput) (*primary.Exemption, error) {
	return &primary.Exemption{}, nil
}

func (m *mockPenaltyService) RevokeExemption(ctx context.Context, exemptionID string) error {
	return nil
}

func (m *mockPenaltyService) ImposeBidSuspension(ctx context.Context, memberID string, from time.Time) (time.Time, error) {
	m.suspensions = append(m.suspensions, memberID)
	return m.until, nil
}
