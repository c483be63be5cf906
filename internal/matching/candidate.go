package matching

import (
	"strings"
	"time"
)

// ManuscriptContext is the immutable input of a matching run.
type ManuscriptContext struct {
	ID           string
	FieldOfStudy string
	Subfield     string
	Keywords     []string
	AuthorIDs    []string
	References   []string
}

// IsAuthor reports whether id belongs to one of the manuscript authors.
func (m ManuscriptContext) IsAuthor(id string) bool {
	for _, author := range m.AuthorIDs {
		if author == id {
			return true
		}
	}
	return false
}

// ReviewerCandidate is a directory snapshot enriched with workload statistics.
type ReviewerCandidate struct {
	ID               string   `json:"id"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	Expertise        []string `json:"expertise"`
	HIndex           int      `json:"h_index"`
	PublicationCount int      `json:"publication_count"`
	Affiliation      string   `json:"affiliation,omitempty"`

	CurrentLoad       int       `json:"current_load"`
	ResponseRate      float64   `json:"response_rate"`
	AvailabilityScore float64   `json:"availability_score"`
	RecentReviews     int       `json:"recent_reviews"`
	AvgReviewTimeDays float64   `json:"avg_review_time_days"`
	LastActiveDate    time.Time `json:"last_active_date"`
}

// Name renders the candidate's display name.
func (c ReviewerCandidate) Name() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Exclusion records why a candidate was dropped before ranking.
type Exclusion struct {
	CandidateID string `json:"candidate_id"`
	Reason      string `json:"reason"`
}

func clamp(value, lo, hi float64) float64 {
	switch {
	case value < lo:
		return lo
	case value > hi:
		return hi
	default:
		return value
	}
}
