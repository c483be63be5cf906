package matching

import (
	"fmt"
	"math"
	"time"
)

// Assignment history statuses as recorded by the review tracking subsystem.
const (
	AssignmentPending   = "pending"
	AssignmentAccepted  = "accepted"
	AssignmentDeclined  = "declined"
	AssignmentCompleted = "completed"
	AssignmentExpired   = "expired"
	AssignmentCancelled = "cancelled"
)

// AssignmentRecord is one historical invitation/assignment for a reviewer.
type AssignmentRecord struct {
	ReviewerID  string
	Status      string
	InvitedAt   time.Time
	RespondedAt *time.Time
	CompletedAt *time.Time
}

// WorkloadPolicy bounds which candidates survive enrichment.
type WorkloadPolicy struct {
	MaxLoad          int
	MinAvailability  float64
	InactivityWindow time.Duration
}

// DefaultWorkloadPolicy returns the standard thresholds.
func DefaultWorkloadPolicy() WorkloadPolicy {
	return WorkloadPolicy{
		MaxLoad:          DefaultMaxLoad,
		MinAvailability:  DefaultMinAvailability,
		InactivityWindow: DefaultInactivityWindow,
	}
}

// WorkloadStats summarises a reviewer's trailing assignment history.
type WorkloadStats struct {
	RecentReviews     int
	AvgReviewTimeDays float64
	ResponseRate      float64
	CurrentLoad       int
	Declines          int
	AvailabilityScore float64
	LastActivity      time.Time
}

// ComputeWorkload derives workload statistics from the supplied history window.
func ComputeWorkload(records []AssignmentRecord) WorkloadStats {
	stats := WorkloadStats{ResponseRate: fullResponse}

	var (
		responded   int
		reviewDays  float64
		reviewCount int
	)

	for _, record := range records {
		stats.LastActivity = latest(stats.LastActivity, record.InvitedAt)
		if record.RespondedAt != nil {
			stats.LastActivity = latest(stats.LastActivity, *record.RespondedAt)
		}
		if record.CompletedAt != nil {
			stats.LastActivity = latest(stats.LastActivity, *record.CompletedAt)
		}

		switch record.Status {
		case AssignmentPending:
			stats.CurrentLoad++
		case AssignmentAccepted:
			stats.CurrentLoad++
		case AssignmentDeclined:
			stats.Declines++
		case AssignmentCompleted:
			stats.RecentReviews++
			if record.CompletedAt != nil {
				reviewDays += record.CompletedAt.Sub(record.InvitedAt).Hours() / 24
				reviewCount++
			}
		}

		if hasResponded(record) {
			responded++
		}
	}

	if len(records) > 0 {
		stats.ResponseRate = float64(responded) / float64(len(records))
	}
	if reviewCount > 0 {
		stats.AvgReviewTimeDays = reviewDays / float64(reviewCount)
	}
	stats.AvailabilityScore = math.Max(0, maxScore-float64(stats.CurrentLoad)*loadPenalty-float64(stats.Declines)*declinePenalty)

	return stats
}

func hasResponded(record AssignmentRecord) bool {
	if record.RespondedAt != nil {
		return true
	}
	switch record.Status {
	case AssignmentAccepted, AssignmentDeclined, AssignmentCompleted:
		return true
	default:
		return false
	}
}

// Enrich applies workload statistics to each candidate and filters out overloaded,
// unavailable or inactive reviewers. Candidate order is preserved.
func Enrich(candidates []ReviewerCandidate, history map[string][]AssignmentRecord, policy WorkloadPolicy, now time.Time) ([]ReviewerCandidate, []Exclusion) {
	if policy.MaxLoad <= 0 {
		policy.MaxLoad = DefaultMaxLoad
	}
	if policy.InactivityWindow <= 0 {
		policy.InactivityWindow = DefaultInactivityWindow
	}

	kept := make([]ReviewerCandidate, 0, len(candidates))
	var dropped []Exclusion

	for _, candidate := range candidates {
		stats := ComputeWorkload(history[candidate.ID])

		candidate.RecentReviews = stats.RecentReviews
		candidate.AvgReviewTimeDays = stats.AvgReviewTimeDays
		candidate.ResponseRate = stats.ResponseRate
		candidate.CurrentLoad = stats.CurrentLoad
		candidate.AvailabilityScore = stats.AvailabilityScore
		candidate.LastActiveDate = latest(candidate.LastActiveDate, stats.LastActivity)

		switch {
		case candidate.CurrentLoad > policy.MaxLoad:
			dropped = append(dropped, Exclusion{
				CandidateID: candidate.ID,
				Reason:      fmt.Sprintf("current load %d exceeds maximum %d", candidate.CurrentLoad, policy.MaxLoad),
			})
		case candidate.AvailabilityScore < policy.MinAvailability:
			dropped = append(dropped, Exclusion{
				CandidateID: candidate.ID,
				Reason:      fmt.Sprintf("availability %.0f below %.0f", candidate.AvailabilityScore, policy.MinAvailability),
			})
		case candidate.LastActiveDate.IsZero() || candidate.LastActiveDate.Before(now.Add(-policy.InactivityWindow)):
			dropped = append(dropped, Exclusion{
				CandidateID: candidate.ID,
				Reason:      "inactive",
			})
		default:
			kept = append(kept, candidate)
		}
	}

	return kept, dropped
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
