// Package window is the time window authority: all wall-clock dependent
// decisions (bidding open, cutoff, processing order) evaluate here against
// an explicit instant. No other package reads the clock directly, so every
// boundary case is testable by injecting a time.
package window

import (
	"fmt"
	"time"
)

// Clock supplies the current time. Production uses SystemClock; tests pin
// instants around window boundaries.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }

// MinuteOfDay is a local time-of-day expressed as minutes after midnight.
type MinuteOfDay int

// ParseMinute parses a "15:04" string into a MinuteOfDay.
func ParseMinute(s string) (MinuteOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return MinuteOfDay(t.Hour()*60 + t.Minute()), nil
}

// String renders the minute back in "15:04" form.
func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

func minuteOf(t time.Time) MinuteOfDay {
	return MinuteOfDay(t.Hour()*60 + t.Minute())
}

// BookGroup is one slot of the fixed referral processing order.
type BookGroup struct {
	Name  string
	Start MinuteOfDay
}

// Authority answers the time-window questions for one rule set. Stateless;
// safe for concurrent use.
type Authority struct {
	bidOpen  MinuteOfDay
	bidClose MinuteOfDay
	cutoff   MinuteOfDay
	order    []BookGroup
}

// Settings carries the parsed rule set for the authority.
type Settings struct {
	BidOpen  MinuteOfDay // evening open, e.g. 17:30
	BidClose MinuteOfDay // next-morning close, e.g. 07:00
	Cutoff   MinuteOfDay // same-day request cutoff, e.g. 15:00
	Order    []BookGroup
}

// New creates an Authority from parsed settings.
func New(s Settings) *Authority {
	order := make([]BookGroup, len(s.Order))
	copy(order, s.Order)
	return &Authority{
		bidOpen:  s.BidOpen,
		bidClose: s.BidClose,
		cutoff:   s.Cutoff,
		order:    order,
	}
}

// IsBiddingOpen reports whether now falls inside the nightly bidding window.
// The window wraps midnight when open > close (the default 17:30-07:00).
// The close minute itself is outside the window: 06:59 succeeds, 07:00 and
// 07:01 fail.
func (a *Authority) IsBiddingOpen(now time.Time) bool {
	m := minuteOf(now)
	if a.bidOpen > a.bidClose {
		return m >= a.bidOpen || m < a.bidClose
	}
	return m >= a.bidOpen && m < a.bidClose
}

// IsPastCutoff reports whether now is at or after the same-day cutoff.
// Requests arriving past cutoff are deferred to the next processing cycle.
func (a *Authority) IsPastCutoff(now time.Time) bool {
	return minuteOf(now) >= a.cutoff
}

// ProcessingOrder returns the fixed ordering of book groups for the next
// referral cycle. The slice is a copy; callers may not mutate the order.
func (a *Authority) ProcessingOrder(now time.Time) []BookGroup {
	order := make([]BookGroup, len(a.order))
	copy(order, a.order)
	return order
}

// NextCycleDate returns the calendar date whose cycle will process a request
// submitted at now: today when before cutoff, tomorrow otherwise.
func (a *Authority) NextCycleDate(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if a.IsPastCutoff(now) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}
