package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "add_scheduled_for_to_labor_requests",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_bid_suspensions_table",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_check_mark_suppressed_activity_event",
		Up:      migrationV3,
	},
}

// InitSchema creates the schema on fresh installs and runs pending
// migrations on existing databases.
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_migrations'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		// Completely fresh install - create modern schema directly and mark
		// all migrations as applied so they never run against it.
		if _, err := db.Exec(SchemaSQL); err != nil {
			return err
		}
		for _, m := range migrations {
			if _, err := db.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
				return err
			}
		}
		return nil
	}

	return RunMigrations()
}

// RunMigrations executes all pending migrations
func RunMigrations() error {
	db, err := GetDB()
	if err != nil {
		return fmt.Errorf("failed to get database: %w", err)
	}

	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Printf("Running migration %d: %s\n", migration.Version, migration.Name)

		if err := migration.Up(db); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err = db.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", migration.Version, migration.Name)
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		fmt.Printf("✓ Migration %d completed\n", migration.Version)
	}

	return nil
}

// migrationV1 adds next-cycle scheduling to labor requests (requests past
// the same-day cutoff carry the cycle date they were deferred to).
func migrationV1(db *sql.DB) error {
	_, err := db.Exec(`ALTER TABLE labor_requests ADD COLUMN scheduled_for TEXT`)
	if err != nil {
		return fmt.Errorf("failed to add scheduled_for column: %w", err)
	}
	return nil
}

// migrationV2 adds bidding suspensions (two rejections in a rolling year
// block online bids without touching book position).
func migrationV2(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bid_suspensions (
			id TEXT PRIMARY KEY,
			member_id TEXT NOT NULL,
			reason TEXT NOT NULL,
			starts_on TEXT NOT NULL,
			ends_on TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create bid_suspensions table: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_bid_suspensions_member ON bid_suspensions(member_id, ends_on)`)
	if err != nil {
		return fmt.Errorf("failed to index bid_suspensions: %w", err)
	}
	return nil
}

// migrationV3 rebuilds registration_activity so the event CHECK constraint
// admits 'check_mark_suppressed' (SQLite cannot alter CHECK constraints).
func migrationV3(db *sql.DB) error {
	stmts := []string{
		`ALTER TABLE registration_activity RENAME TO registration_activity_old`,
		`CREATE TABLE registration_activity (
			id TEXT PRIMARY KEY,
			registration_id TEXT,
			member_id TEXT NOT NULL,
			book_id TEXT,
			event TEXT NOT NULL CHECK(event IN ('register', 're_sign', 'dispatch', 'check_mark', 'check_mark_suppressed', 'exemption_granted', 'exemption_revoked', 'roll_off', 'reinstate', 'resign', 'skip', 'bid_suspension')),
			detail TEXT,
			actor TEXT,
			occurred_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`INSERT INTO registration_activity SELECT * FROM registration_activity_old`,
		`DROP TABLE registration_activity_old`,
		`CREATE INDEX IF NOT EXISTS idx_activity_member ON registration_activity(member_id, occurred_at)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_book ON registration_activity(book_id, occurred_at)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to rebuild registration_activity: %w", err)
		}
	}
	return nil
}
