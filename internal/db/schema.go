package db

// SchemaSQL is the complete schema for fresh hall installs.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(). If repository code references a column that
// doesn't exist here, tests fail immediately with "no such column" instead of
// drifting silently.
//
// When adding new columns or tables:
//  1. Add a migration in internal/db/migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Members (read-only directory; identity management lives outside the core)
CREATE TABLE IF NOT EXISTS members (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	classification TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('active', 'inactive')) DEFAULT 'active',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Employers (read-only directory)
CREATE TABLE IF NOT EXISTS employers (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	contract_code TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Referral books (ordered out-of-work lists, one per classification/agreement/region)
CREATE TABLE IF NOT EXISTS books (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	classification TEXT NOT NULL,
	agreement_type TEXT NOT NULL CHECK(agreement_type IN ('standard', 'project_labor', 'community_workforce')) DEFAULT 'standard',
	tier_count INTEGER NOT NULL CHECK(tier_count BETWEEN 1 AND 4) DEFAULT 1,
	processing_start TEXT NOT NULL DEFAULT '08:30',
	book_group TEXT NOT NULL CHECK(book_group IN ('primary', 'secondary', 'miscellaneous')) DEFAULT 'primary',
	online_bidding INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Book registrations (a member's position on one book)
-- day_serial/tie_break form the queue sort key; version guards concurrent
-- status writers (optimistic locking).
CREATE TABLE IF NOT EXISTS registrations (
	id TEXT PRIMARY KEY,
	member_id TEXT NOT NULL,
	book_id TEXT NOT NULL,
	tier INTEGER NOT NULL CHECK(tier BETWEEN 1 AND 4) DEFAULT 1,
	day_serial INTEGER NOT NULL,
	tie_break INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL CHECK(status IN ('active', 'dispatched', 'resigned', 'suspended', 'rolled_off')) DEFAULT 'active',
	check_marks INTEGER NOT NULL CHECK(check_marks BETWEEN 0 AND 3) DEFAULT 0,
	version INTEGER NOT NULL DEFAULT 1,
	roll_off_reason TEXT,
	registered_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	closed_at DATETIME,
	FOREIGN KEY (member_id) REFERENCES members(id),
	FOREIGN KEY (book_id) REFERENCES books(id)
);

-- One live registration per (member, book, tier); closed rows stay for history.
CREATE UNIQUE INDEX IF NOT EXISTS idx_registrations_live
	ON registrations(member_id, book_id, tier)
	WHERE status IN ('active', 'dispatched', 'suspended');

CREATE INDEX IF NOT EXISTS idx_registrations_queue
	ON registrations(book_id, tier, status, day_serial, tie_break);

-- Employer labor requests
CREATE TABLE IF NOT EXISTS labor_requests (
	id TEXT PRIMARY KEY,
	employer_id TEXT NOT NULL,
	book_id TEXT NOT NULL,
	tier INTEGER NOT NULL DEFAULT 1,
	classification TEXT NOT NULL,
	quantity INTEGER NOT NULL CHECK(quantity > 0),
	named_member_id TEXT,
	status TEXT NOT NULL CHECK(status IN ('open', 'partial', 'filled', 'cancelled')) DEFAULT 'open',
	scheduled_for TEXT,
	submitted_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	start_date TEXT NOT NULL,
	FOREIGN KEY (employer_id) REFERENCES employers(id),
	FOREIGN KEY (book_id) REFERENCES books(id)
);

-- Job bids placed during the nightly bidding window
CREATE TABLE IF NOT EXISTS bids (
	id TEXT PRIMARY KEY,
	member_id TEXT NOT NULL,
	request_id TEXT NOT NULL,
	outcome TEXT NOT NULL CHECK(outcome IN ('pending', 'accepted', 'rejected', 'withdrawn')) DEFAULT 'pending',
	submitted_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	decided_at DATETIME,
	FOREIGN KEY (member_id) REFERENCES members(id),
	FOREIGN KEY (request_id) REFERENCES labor_requests(id)
);

CREATE INDEX IF NOT EXISTS idx_bids_member_outcome ON bids(member_id, outcome, decided_at);

-- Committed dispatch assignments
CREATE TABLE IF NOT EXISTS dispatches (
	id TEXT PRIMARY KEY,
	registration_id TEXT NOT NULL,
	member_id TEXT NOT NULL,
	request_id TEXT NOT NULL,
	employer_id TEXT NOT NULL,
	start_date TEXT NOT NULL,
	expected_end TEXT,
	actual_end TEXT,
	short_call INTEGER NOT NULL DEFAULT 0,
	termination_reason TEXT CHECK(termination_reason IN ('completed', 'quit', 'discharged', 'short_call', 'other')),
	status TEXT NOT NULL CHECK(status IN ('active', 'terminated')) DEFAULT 'active',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (registration_id) REFERENCES registrations(id),
	FOREIGN KEY (request_id) REFERENCES labor_requests(id)
);

CREATE INDEX IF NOT EXISTS idx_dispatches_request ON dispatches(request_id, status);

-- Append-only activity trail for registrations. Rows are never updated.
CREATE TABLE IF NOT EXISTS registration_activity (
	id TEXT PRIMARY KEY,
	registration_id TEXT,
	member_id TEXT NOT NULL,
	book_id TEXT,
	event TEXT NOT NULL CHECK(event IN ('register', 're_sign', 'dispatch', 'check_mark', 'check_mark_suppressed', 'exemption_granted', 'exemption_revoked', 'roll_off', 'reinstate', 'resign', 'skip', 'bid_suspension')),
	detail TEXT,
	actor TEXT,
	occurred_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activity_member ON registration_activity(member_id, occurred_at);
CREATE INDEX IF NOT EXISTS idx_activity_book ON registration_activity(book_id, occurred_at);

-- Immutable general audit log, mirrored from registration_activity in the
-- same transaction. No update or delete path exists in code for this table.
CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	event TEXT NOT NULL,
	detail TEXT,
	actor TEXT,
	occurred_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Time-bounded exemptions suppressing eligibility and check-mark exposure
CREATE TABLE IF NOT EXISTS exemptions (
	id TEXT PRIMARY KEY,
	member_id TEXT NOT NULL,
	book_id TEXT NOT NULL,
	reason TEXT NOT NULL,
	starts_on TEXT NOT NULL,
	ends_on TEXT NOT NULL,
	revoked INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_exemptions_member ON exemptions(member_id, book_id);

-- Blackouts bar a member from a specific employer (quit/discharge cascade)
-- or from by-name requests generally (anti-collusion; employer_id NULL).
CREATE TABLE IF NOT EXISTS blackouts (
	id TEXT PRIMARY KEY,
	member_id TEXT NOT NULL,
	employer_id TEXT,
	reason TEXT NOT NULL CHECK(reason IN ('quit', 'discharge', 'anti_collusion')),
	starts_on TEXT NOT NULL,
	ends_on TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_blackouts_member ON blackouts(member_id);

-- Bidding suspensions: bids blocked, ordinary dispatch unaffected.
CREATE TABLE IF NOT EXISTS bid_suspensions (
	id TEXT PRIMARY KEY,
	member_id TEXT NOT NULL,
	reason TEXT NOT NULL,
	starts_on TEXT NOT NULL,
	ends_on TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_bid_suspensions_member ON bid_suspensions(member_id, ends_on);

-- Schema version tracking for migrations
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// GetSchemaSQL returns the authoritative schema SQL.
// Tests must use this instead of hardcoding CREATE TABLE statements.
func GetSchemaSQL() string {
	return SchemaSQL
}
