package matching

import (
	"math"
	"strings"
	"unicode"
)

// RelevanceBreakdown carries the component scores behind a relevance score.
type RelevanceBreakdown struct {
	Expertise float64
	Citation  float64
	Quality   float64
	Relevance float64
}

// ScoreRelevance combines expertise, citation and quality scores for one candidate.
func ScoreRelevance(manuscript ManuscriptContext, candidate ReviewerCandidate) RelevanceBreakdown {
	expertise := ExpertiseScore(manuscript, candidate.Expertise)
	citation := CitationScore(candidate, manuscript.References)
	quality := QualityScore(candidate)

	relevance := expertise*expertiseRelevanceWeight + citation*citationRelevanceWeight + quality*qualityRelevanceWeight

	return RelevanceBreakdown{
		Expertise: expertise,
		Citation:  citation,
		Quality:   quality,
		Relevance: clamp(relevance, 0, maxScore),
	}
}

// ExpertiseScore measures how well the expertise list covers the manuscript topic.
func ExpertiseScore(manuscript ManuscriptContext, expertise []string) float64 {
	areas := normaliseTerms(expertise)
	if len(areas) == 0 {
		return 0
	}

	var score float64
	if matchesAny(manuscript.FieldOfStudy, areas) {
		score += fieldMatchPoints
	}
	if matchesAny(manuscript.Subfield, areas) {
		score += subfieldMatchPoints
	}
	for _, keyword := range manuscript.Keywords {
		if matchesAny(keyword, areas) {
			score += keywordMatchPoints
		}
	}

	terms := make([]string, 0, len(manuscript.Keywords)+2)
	terms = append(terms, manuscript.FieldOfStudy, manuscript.Subfield)
	terms = append(terms, manuscript.Keywords...)
	score += semanticBonus(normaliseTerms(terms), areas)

	return math.Min(score, maxScore)
}

// matchesAny reports a case-insensitive substring match in either direction.
func matchesAny(term string, areas []string) bool {
	term = normalise(term)
	if term == "" {
		return false
	}
	for _, area := range areas {
		if strings.Contains(area, term) || strings.Contains(term, area) {
			return true
		}
	}
	return false
}

func semanticBonus(terms, areas []string) float64 {
	var bonus float64
	for _, term := range terms {
		termTokens := tokenSet(term)
		for _, area := range areas {
			if jaccard(termTokens, tokenSet(area)) >= semanticJaccardFloor {
				bonus += semanticPairPoints
			}
		}
	}
	return math.Min(bonus, semanticBonusCap)
}

func tokenSet(value string) map[string]struct{} {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		set[field] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// CitationScore awards points for each reference that cites the candidate.
func CitationScore(candidate ReviewerCandidate, references []string) float64 {
	variants := NameVariants(candidate.FirstName, candidate.LastName)
	if len(variants) == 0 {
		return 0
	}

	var score float64
	for _, reference := range references {
		reference = normalise(reference)
		if reference == "" {
			continue
		}
		for _, variant := range variants {
			if strings.Contains(reference, variant) {
				score += citationMatchPoints
				break
			}
		}
	}
	return math.Min(score, maxScore)
}

// NameVariants lists the lower-cased spellings of a name commonly found in reference lists.
func NameVariants(first, last string) []string {
	first = normalise(first)
	last = normalise(last)

	switch {
	case last == "" && first == "":
		return nil
	case first == "":
		return []string{last}
	case last == "":
		return []string{first}
	}

	initial := string([]rune(first)[0])
	return []string{
		first + " " + last,
		last + " " + first,
		last + ", " + first,
		last + ", " + initial + ".",
		last + " " + initial,
		initial + ". " + last,
		initial + " " + last,
	}
}

// QualityScore rates reviewer track record on a 0..100 scale.
func QualityScore(candidate ReviewerCandidate) float64 {
	score := qualityBase
	score += math.Min(float64(candidate.HIndex)*hIndexMultiplier, hIndexCap)
	score += math.Min(float64(candidate.PublicationCount)/publicationDivisor, publicationCap)
	score += candidate.ResponseRate * responseRateMultiplier
	score += math.Min(float64(candidate.RecentReviews)*recentReviewMultiplier, recentReviewCap)

	if candidate.AvgReviewTimeDays > slowReviewThresholdDays {
		score -= math.Min((candidate.AvgReviewTimeDays-slowReviewThresholdDays)/slowReviewPenaltyDivisor, slowReviewPenaltyCap)
	}

	return clamp(score, 0, maxScore)
}

// DiversityScorer rates how much a candidate diversifies a reviewer selection.
type DiversityScorer interface {
	Score(candidate ReviewerCandidate, selected []ReviewerCandidate) float64
}

// AffiliationDiversity is the default scorer: it only checks that an affiliation is known.
// Set-aware institutional or geographic balancing plugs in through DiversityScorer.
type AffiliationDiversity struct{}

// Score implements DiversityScorer.
func (AffiliationDiversity) Score(candidate ReviewerCandidate, _ []ReviewerCandidate) float64 {
	score := diversityBase
	if strings.TrimSpace(candidate.Affiliation) != "" {
		score += affiliationDiversityBonus
	}
	return clamp(score, 0, maxScore)
}

func normalise(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}

func normaliseTerms(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = normalise(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
