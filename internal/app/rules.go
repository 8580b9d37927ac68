// Package app implements the primary port services, orchestrating the
// pure core logic and the persistence adapters.
package app

import "time"

// Rules is the organization's dispatch rule set, loaded from configuration.
// Every threshold the services apply comes from here; nothing is hardcoded
// in rule logic.
type Rules struct {
	ReSignDays         int
	CheckMarkLimit     int
	BidRejectionLimit  int
	BidRejectionWindow time.Duration
	BidSuspension      time.Duration
	SeparationBlackout time.Duration
	ShortCallDays      int
}

// DefaultRules matches the configuration defaults.
func DefaultRules() Rules {
	return Rules{
		ReSignDays:         30,
		CheckMarkLimit:     3,
		BidRejectionLimit:  2,
		BidRejectionWindow: 365 * 24 * time.Hour,
		BidSuspension:      365 * 24 * time.Hour,
		SeparationBlackout: 14 * 24 * time.Hour,
		ShortCallDays:      10,
	}
}
