package db

import (
	"database/sql"
	"fmt"
)

// SeedFixtures populates the database with development fixtures: the book
// catalog plus a small member/employer directory that exercises the
// dispatch rules (tiers, online bidding, book groups).
func SeedFixtures(database *sql.DB) error {
	members := []struct{ id, name, classification string }{
		{"MBR-001", "R. Alvarez", "inside_wireman"},
		{"MBR-002", "T. Okafor", "inside_wireman"},
		{"MBR-003", "J. Kowalski", "sound_technician"},
		{"MBR-004", "M. Tran", "inside_wireman"},
		{"MBR-005", "S. Baptiste", "residential_wireman"},
	}
	for _, m := range members {
		if _, err := database.Exec(
			"INSERT INTO members (id, name, classification, status) VALUES (?, ?, ?, 'active')",
			m.id, m.name, m.classification,
		); err != nil {
			return fmt.Errorf("seed members: %w", err)
		}
	}

	employers := []struct{ id, name, code string }{
		{"EMP-001", "Harbor Electric Co", "IA-2019"},
		{"EMP-002", "Crestline Power & Signal", "IA-2021"},
		{"EMP-003", "Meridian Sound Systems", "SC-2020"},
	}
	for _, e := range employers {
		if _, err := database.Exec(
			"INSERT INTO employers (id, name, contract_code) VALUES (?, ?, ?)",
			e.id, e.name, e.code,
		); err != nil {
			return fmt.Errorf("seed employers: %w", err)
		}
	}

	books := []struct {
		id, name, classification, agreement, group, start string
		tiers                                             int
		bidding                                           bool
	}{
		{"BOOK-001", "Inside Wireman Book 1", "inside_wireman", "standard", "primary", "08:30", 2, true},
		{"BOOK-002", "Inside Wireman Book 2", "inside_wireman", "standard", "primary", "08:45", 2, true},
		{"BOOK-003", "Residential Book", "residential_wireman", "community_workforce", "secondary", "09:15", 1, false},
		{"BOOK-004", "Sound & Communication Book", "sound_technician", "standard", "secondary", "09:30", 1, true},
		{"BOOK-005", "Project Labor Book", "inside_wireman", "project_labor", "miscellaneous", "10:00", 4, false},
	}
	for _, b := range books {
		bidding := 0
		if b.bidding {
			bidding = 1
		}
		if _, err := database.Exec(
			"INSERT INTO books (id, name, classification, agreement_type, tier_count, processing_start, book_group, online_bidding) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			b.id, b.name, b.classification, b.agreement, b.tiers, b.start, b.group, bidding,
		); err != nil {
			return fmt.Errorf("seed books: %w", err)
		}
	}

	return nil
}
