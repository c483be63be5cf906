package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchingDuration measures end-to-end reviewer matching runs.
	MatchingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reviewerdesk_matching_duration_seconds",
			Help:    "Duration of reviewer matching runs",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ConflictChecks counts conflict evaluations by result (clear|warning|blocking|lookup_failed).
	ConflictChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewerdesk_conflict_checks_total",
			Help: "Total number of reviewer conflict-of-interest evaluations",
		},
		[]string{"result"},
	)

	// InvitationOutcomes counts per-reviewer invitation outcomes (sent|scheduled|failed|skipped).
	InvitationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewerdesk_invitation_outcomes_total",
			Help: "Per-reviewer outcomes of invitation batches",
		},
		[]string{"outcome"},
	)

	// InvitationTransitions counts invitation state changes by target status.
	InvitationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewerdesk_invitation_transitions_total",
			Help: "Invitation status transitions",
		},
		[]string{"status"},
	)

	// ScheduledDispatches counts processed delayed jobs by kind and result (done|failed|skipped).
	ScheduledDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewerdesk_scheduled_dispatches_total",
			Help: "Scheduled invitation and reminder dispatches processed",
		},
		[]string{"kind", "result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reviewerdesk_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
