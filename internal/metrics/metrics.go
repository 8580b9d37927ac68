// Package metrics exposes prometheus counters for referral cycle health.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DispatchesCommitted counts committed dispatch assignments per book.
	DispatchesCommitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hall_dispatches_committed_total",
			Help: "Total number of committed dispatch assignments.",
		},
		[]string{"book"},
	)

	// CandidateSkips counts candidates passed over during assignment, by reason.
	CandidateSkips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hall_candidate_skips_total",
			Help: "Total number of candidates skipped during assignment walks.",
		},
		[]string{"reason"},
	)

	// VersionConflicts counts optimistic-lock losses during dispatch commits.
	VersionConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hall_version_conflicts_total",
			Help: "Total number of registration version conflicts during commits.",
		},
	)

	// PartialFulfillments counts assignment passes that ended short of quantity.
	PartialFulfillments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hall_partial_fulfillments_total",
			Help: "Total number of labor requests left partially filled.",
		},
	)

	// BidsSubmitted counts accepted bid submissions.
	BidsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hall_bids_submitted_total",
			Help: "Total number of bids accepted into the ledger.",
		},
	)

	// CycleRuns counts referral cycle executions per book group and result.
	CycleRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hall_cycle_runs_total",
			Help: "Total number of referral cycle runs.",
		},
		[]string{"group", "status"},
	)
)
