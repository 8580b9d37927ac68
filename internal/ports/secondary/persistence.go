// Package secondary defines the secondary ports (driven adapters) for the
// application: persistence interfaces and the flat records they exchange.
package secondary

import (
	"context"
	"time"
)

// RegistrationRecord represents a book registration as stored in persistence.
type RegistrationRecord struct {
	ID            string
	MemberID      string
	BookID        string
	Tier          int
	DaySerial     int64
	TieBreak      int64
	Status        string
	CheckMarks    int
	Version       int64
	RollOffReason string
	RegisteredAt  time.Time
	UpdatedAt     time.Time
	ClosedAt      time.Time // zero while the registration is live
}

// ActivityRecord is one append-only registration activity row. Rows are
// never updated after insertion; the adapter mirrors each one into the
// immutable audit log inside the same transaction.
type ActivityRecord struct {
	ID             string // uuid, assigned by the adapter when empty
	RegistrationID string
	MemberID       string
	BookID         string
	Event          string
	Detail         string
	Actor          string // resolved from context by the adapter when empty
	OccurredAt     time.Time
}

// Activity event names.
const (
	EventRegister            = "register"
	EventReSign              = "re_sign"
	EventDispatch            = "dispatch"
	EventCheckMark           = "check_mark"
	EventCheckMarkSuppressed = "check_mark_suppressed"
	EventExemptionGranted    = "exemption_granted"
	EventExemptionRevoked    = "exemption_revoked"
	EventRollOff             = "roll_off"
	EventReinstate           = "reinstate"
	EventResign              = "resign"
	EventSkip                = "skip"
	EventBidSuspension       = "bid_suspension"
)

// ActivityFilters narrows activity stream reads.
type ActivityFilters struct {
	MemberID string
	BookID   string
	From     time.Time
	To       time.Time
	Limit    int
}

// RegistrationRepository defines the secondary port for registration
// persistence. Every mutating method takes the paired activity row and
// commits it in the same transaction as the state change; the activity
// write happens first so a partial failure never leaves a state change
// unaudited.
type RegistrationRepository interface {
	// Create inserts a registration, assigning the per-(book, day)
	// monotonic tie-break inside the insert transaction.
	Create(ctx context.Context, reg *RegistrationRecord, act *ActivityRecord) error

	// GetByID retrieves a registration by its ID.
	GetByID(ctx context.Context, id string) (*RegistrationRecord, error)

	// HasLive reports whether a live (active/dispatched/suspended)
	// registration exists for the member on the book tier.
	HasLive(ctx context.Context, memberID, bookID string, tier int) (bool, error)

	// ListActiveOrdered returns active registrations for a book tier in
	// queue order: (day_serial, tie_break, id) ascending.
	ListActiveOrdered(ctx context.Context, bookID string, tier int) ([]*RegistrationRecord, error)

	// ListLiveByMember returns the member's non-terminal registrations
	// across all books.
	ListLiveByMember(ctx context.Context, memberID string) ([]*RegistrationRecord, error)

	// ReSign resets the sort key to the given day, re-assigning the
	// tie-break. Fails with ErrVersionConflict when version is stale.
	ReSign(ctx context.Context, id string, version int64, daySerial int64, act *ActivityRecord) error

	// UpdateStatus transitions the registration status with a version
	// check. rollOffReason and closed are recorded on terminal transitions.
	UpdateStatus(ctx context.Context, id string, version int64, status, rollOffReason string, act *ActivityRecord) error

	// SetCheckMarks updates the check-mark count with a version check.
	SetCheckMarks(ctx context.Context, id string, version int64, count int, act *ActivityRecord) error

	// GetNextID returns the next available registration ID.
	GetNextID(ctx context.Context) (string, error)
}

// BookRecord represents a referral book.
type BookRecord struct {
	ID              string
	Name            string
	Classification  string
	AgreementType   string
	TierCount       int
	ProcessingStart string
	Group           string
	OnlineBidding   bool
}

// BookRepository defines the secondary port for book lookup. Books are
// seeded by configuration and never deleted while registrations reference
// them.
type BookRepository interface {
	GetByID(ctx context.Context, id string) (*BookRecord, error)
	List(ctx context.Context) ([]*BookRecord, error)
	ListByGroup(ctx context.Context, group string) ([]*BookRecord, error)
}

// RequestRecord represents an employer labor request.
type RequestRecord struct {
	ID             string
	EmployerID     string
	BookID         string
	Tier           int
	Classification string
	Quantity       int
	NamedMemberID  string
	Status         string
	ScheduledFor   time.Time // zero unless deferred past cutoff
	SubmittedAt    time.Time
	StartDate      time.Time
}

// Labor request status values.
const (
	RequestOpen      = "open"
	RequestPartial   = "partial"
	RequestFilled    = "filled"
	RequestCancelled = "cancelled"
)

// RequestRepository defines the secondary port for labor request persistence.
type RequestRepository interface {
	Create(ctx context.Context, req *RequestRecord) error
	GetByID(ctx context.Context, id string) (*RequestRecord, error)
	ListScheduled(ctx context.Context, byDate time.Time, bookIDs []string) ([]*RequestRecord, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SetScheduledFor(ctx context.Context, id string, date time.Time) error
	CountActiveDispatches(ctx context.Context, requestID string) (int, error)
	GetNextID(ctx context.Context) (string, error)
}

// BidRecord represents a job bid.
type BidRecord struct {
	ID          string
	MemberID    string
	RequestID   string
	Outcome     string
	SubmittedAt time.Time
	DecidedAt   time.Time
}

// BidRepository defines the secondary port for the bid ledger.
type BidRepository interface {
	Create(ctx context.Context, bid *BidRecord) error
	GetByID(ctx context.Context, id string) (*BidRecord, error)
	RecordOutcome(ctx context.Context, id, outcome string, decidedAt time.Time) error
	CountRejectionsSince(ctx context.Context, memberID string, since time.Time) (int, error)
	ListByRequest(ctx context.Context, requestID string) ([]*BidRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// DispatchRecord represents a committed assignment.
type DispatchRecord struct {
	ID                string
	RegistrationID    string
	MemberID          string
	RequestID         string
	EmployerID        string
	StartDate         time.Time
	ExpectedEnd       time.Time
	ActualEnd         time.Time
	ShortCall         bool
	TerminationReason string
	Status            string
	CreatedAt         time.Time
}

// DispatchRepository defines the secondary port for dispatch persistence.
type DispatchRepository interface {
	// Commit atomically flips the registration to dispatched (version
	// checked), inserts the dispatch, and appends the activity row - one
	// transaction. Returns ErrVersionConflict when the candidate changed
	// under the assignor.
	Commit(ctx context.Context, reg *RegistrationRecord, d *DispatchRecord, act *ActivityRecord) error

	GetByID(ctx context.Context, id string) (*DispatchRecord, error)

	// Terminate closes a dispatch with its reason, end date and short-call flag.
	Terminate(ctx context.Context, id, reason string, actualEnd time.Time, shortCall bool) error

	ListByRequest(ctx context.Context, requestID string) ([]*DispatchRecord, error)

	GetNextID(ctx context.Context) (string, error)
}

// ActivityRepository defines the secondary port for the audit trail. Append
// is used for events with no paired state change (eligibility skips); reads
// serve the compliance stream. There is no update or delete path.
type ActivityRepository interface {
	Append(ctx context.Context, act *ActivityRecord) error
	List(ctx context.Context, filters ActivityFilters) ([]*ActivityRecord, error)
}

// ExemptionRecord is a time-bounded eligibility and check-mark shield.
type ExemptionRecord struct {
	ID       string
	MemberID string
	BookID   string
	Reason   string
	StartsOn time.Time
	EndsOn   time.Time
	Revoked  bool
}

// ExemptionRepository defines the secondary port for exemptions.
type ExemptionRepository interface {
	Create(ctx context.Context, e *ExemptionRecord) error
	Revoke(ctx context.Context, id string) error
	ListActive(ctx context.Context, memberID, bookID string, on time.Time) ([]*ExemptionRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// BlackoutRecord bars a member from an employer or from by-name requests.
type BlackoutRecord struct {
	ID         string
	MemberID   string
	EmployerID string // empty bars by-name requests from any employer
	Reason     string
	StartsOn   time.Time
	EndsOn     time.Time
}

// BlackoutRepository defines the secondary port for blackout periods.
type BlackoutRepository interface {
	Create(ctx context.Context, b *BlackoutRecord) error
	ListActive(ctx context.Context, memberID string, on time.Time) ([]*BlackoutRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// SuspensionRecord blocks bidding without touching book position.
type SuspensionRecord struct {
	ID       string
	MemberID string
	Reason   string
	StartsOn time.Time
	EndsOn   time.Time
}

// SuspensionRepository defines the secondary port for bidding suspensions.
type SuspensionRepository interface {
	Create(ctx context.Context, s *SuspensionRecord) error
	ActiveUntil(ctx context.Context, memberID string, on time.Time) (time.Time, error)
	GetNextID(ctx context.Context) (string, error)
}

// MemberRecord is the identity surface the core consumes; profile
// management lives outside this subsystem.
type MemberRecord struct {
	ID             string
	Name           string
	Classification string
	Status         string
}

// MemberDirectory defines the read-only member identity lookup.
type MemberDirectory interface {
	GetMember(ctx context.Context, id string) (*MemberRecord, error)
}

// EmployerRecord is the employer identity surface.
type EmployerRecord struct {
	ID           string
	Name         string
	ContractCode string
}

// EmployerDirectory defines the read-only employer identity lookup.
type EmployerDirectory interface {
	GetEmployer(ctx context.Context, id string) (*EmployerRecord, error)
}
