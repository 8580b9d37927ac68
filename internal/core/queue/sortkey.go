// Package queue contains the pure business logic for book registration
// ordering. Guards are pure functions that evaluate preconditions without
// side effects.
package queue

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// legacyEpoch is the day-zero of the legacy serial date encoding
// (1899-12-30, so 2022-01-01 lands on serial 44562).
var legacyEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// SortKey is a registration's queue position. The legacy system packed both
// parts into one fixed-point number; internally they are explicit fields and
// only render to a decimal at the export boundary.
type SortKey struct {
	// DaySerial is the registration date as a legacy serial day number.
	DaySerial int64
	// TieBreak orders same-day registrations; assigned monotonically per
	// (book, day) at insert time.
	TieBreak int64
}

// NewSortKey derives the sort key for a registration taken at t.
// The tie-break is assigned by the repository inside the insert transaction.
func NewSortKey(t time.Time, tieBreak int64) SortKey {
	return SortKey{DaySerial: DaySerial(t), TieBreak: tieBreak}
}

// DaySerial converts a wall-clock instant to the legacy serial day number,
// evaluated in the instant's own location.
func DaySerial(t time.Time) int64 {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int64(midnight.Sub(legacyEpoch).Hours() / 24)
}

// Compare orders two sort keys: earlier day first, then lower tie-break.
// Returns -1, 0, or 1.
func (k SortKey) Compare(other SortKey) int {
	switch {
	case k.DaySerial < other.DaySerial:
		return -1
	case k.DaySerial > other.DaySerial:
		return 1
	case k.TieBreak < other.TieBreak:
		return -1
	case k.TieBreak > other.TieBreak:
		return 1
	default:
		return 0
	}
}

// Before reports whether k sorts ahead of other in the queue.
func (k SortKey) Before(other SortKey) bool {
	return k.Compare(other) < 0
}

// APN renders the key in the legacy fixed-point format (day serial integer
// part, two-digit tie-break fraction), e.g. 44562.01. Export-only: ordering
// always uses the composite fields, never this encoding.
func (k SortKey) APN() decimal.Decimal {
	return decimal.New(k.DaySerial, 0).Add(decimal.New(k.TieBreak, -2))
}

// ParseAPN splits a legacy fixed-point position back into its parts.
// Truncating the fraction would destroy same-day ordering, so the full
// two-digit fraction is preserved as the tie-break.
func ParseAPN(apn decimal.Decimal) (SortKey, error) {
	if apn.IsNegative() {
		return SortKey{}, fmt.Errorf("invalid position value %s", apn)
	}
	day := apn.IntPart()
	frac := apn.Sub(decimal.New(day, 0)).Mul(decimal.New(100, 0))
	if !frac.IsInteger() {
		return SortKey{}, fmt.Errorf("position %s has more than two fractional digits", apn)
	}
	return SortKey{DaySerial: day, TieBreak: frac.IntPart()}, nil
}
