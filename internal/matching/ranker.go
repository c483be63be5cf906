package matching

import (
	"sort"
	"strings"
)

// MatchResult is a scored candidate. Scores are on a 0..100 scale.
type MatchResult struct {
	Candidate         ReviewerCandidate `json:"candidate"`
	ExpertiseScore    float64           `json:"expertise_score"`
	CitationScore     float64           `json:"citation_score"`
	RelevanceScore    float64           `json:"relevance_score"`
	AvailabilityScore float64           `json:"availability_score"`
	QualityScore      float64           `json:"quality_score"`
	DiversityScore    float64           `json:"diversity_score"`
	OverallScore      float64           `json:"overall_score"`
	RiskScore         float64           `json:"risk_score"`
	MatchReasons      []string          `json:"match_reasons"`
	Eligible          bool              `json:"eligible"`
	Conflicts         []ConflictRecord  `json:"conflicts,omitempty"`
}

// Ranker turns enriched candidates and conflict assessments into an ordered shortlist.
type Ranker struct {
	Diversity DiversityScorer
}

// NewRanker returns a Ranker using the default diversity scorer when none is given.
func NewRanker(diversity DiversityScorer) *Ranker {
	if diversity == nil {
		diversity = AffiliationDiversity{}
	}
	return &Ranker{Diversity: diversity}
}

// Rank scores every candidate, applies conflict penalties, sorts by overall score and
// truncates to limit (limit <= 0 keeps everything). A candidate without an assessment is
// treated as a failed conflict lookup.
func (r *Ranker) Rank(manuscript ManuscriptContext, candidates []ReviewerCandidate, assessments map[string]ConflictAssessment, limit int) []MatchResult {
	diversity := r.Diversity
	if diversity == nil {
		diversity = AffiliationDiversity{}
	}

	results := make([]MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		assessment, ok := assessments[candidate.ID]
		if !ok {
			assessment = FailSafeAssessment(candidate.ID, nil)
		}
		results = append(results, score(manuscript, candidate, assessment, diversity))
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.OverallScore != b.OverallScore {
			return a.OverallScore > b.OverallScore
		}
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		return a.Candidate.ID < b.Candidate.ID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func score(manuscript ManuscriptContext, candidate ReviewerCandidate, assessment ConflictAssessment, diversity DiversityScorer) MatchResult {
	breakdown := ScoreRelevance(manuscript, candidate)
	availability := clamp(candidate.AvailabilityScore, 0, maxScore)
	diversityScore := clamp(diversity.Score(candidate, nil), 0, maxScore)

	overall := breakdown.Relevance*relevanceOverallWeight +
		availability*availabilityOverallWeight +
		breakdown.Quality*qualityOverallWeight +
		diversityScore*diversityOverallWeight

	switch {
	case !assessment.Eligible:
		overall *= blockingConflictFactor
	case assessment.HasNonBlocking():
		overall *= nonBlockingConflictFactor
	}

	result := MatchResult{
		Candidate:         candidate,
		ExpertiseScore:    breakdown.Expertise,
		CitationScore:     breakdown.Citation,
		RelevanceScore:    breakdown.Relevance,
		AvailabilityScore: availability,
		QualityScore:      breakdown.Quality,
		DiversityScore:    diversityScore,
		OverallScore:      clamp(overall, 0, maxScore),
		RiskScore:         assessment.RiskScore,
		Eligible:          assessment.Eligible,
		Conflicts:         assessment.Conflicts,
	}
	result.MatchReasons = matchReasons(result, assessment)
	return result
}

func matchReasons(result MatchResult, assessment ConflictAssessment) []string {
	candidate := result.Candidate
	var reasons []string

	if result.ExpertiseScore >= strongExpertiseThreshold {
		reasons = append(reasons, "strong expertise match")
	}
	if result.CitationScore > 0 {
		reasons = append(reasons, "cited in references")
	}
	if candidate.HIndex >= highHIndexThreshold {
		reasons = append(reasons, "high h-index")
	}
	if result.AvailabilityScore >= highAvailabilityFloor {
		reasons = append(reasons, "high availability")
	}
	if candidate.RecentReviews >= activeReviewerThreshold {
		reasons = append(reasons, "active reviewer")
	}
	if candidate.RecentReviews > 0 && candidate.AvgReviewTimeDays <= fastTurnaroundDays {
		reasons = append(reasons, "fast turnaround")
	}
	if candidate.ResponseRate >= reliableResponseRate {
		reasons = append(reasons, "reliable")
	}

	if assessment.LookupError != "" {
		reasons = append(reasons, "conflict check unavailable")
	} else if len(assessment.Conflicts) > 0 {
		types := make([]string, 0, len(assessment.Conflicts))
		for _, conflict := range assessment.Conflicts {
			types = append(types, string(conflict.Type))
		}
		reasons = append(reasons, "conflict of interest: "+strings.Join(types, ", "))
	}

	return reasons
}
