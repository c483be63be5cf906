package matching

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpertiseScoreComponents(t *testing.T) {
	manuscript := ManuscriptContext{
		FieldOfStudy: "Machine Learning",
		Subfield:     "Natural Language Processing",
		Keywords:     []string{"transformers", "tokenization", "graph theory"},
	}

	tests := []struct {
		name      string
		expertise []string
		want      float64
	}{
		{"no expertise", nil, 0},
		{"unrelated", []string{"Botany"}, 0},
		{"field only", []string{"machine learning"}, 40 + 3},
		{"field contains area", []string{"Learning"}, 40},
		{"field subfield and keyword", []string{"Machine Learning", "natural language processing", "Transformers"}, 40 + 30 + 10 + 9},
		{"blank entries ignored", []string{"  ", ""}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, ExpertiseScore(manuscript, tt.expertise), 1e-9)
		})
	}
}

func TestExpertiseScoreCapsAtHundred(t *testing.T) {
	manuscript := ManuscriptContext{
		FieldOfStudy: "Biology",
		Subfield:     "Genomics",
		Keywords:     []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8"},
	}
	expertise := []string{"biology", "genomics", "a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8"}
	require.Equal(t, 100.0, ExpertiseScore(manuscript, expertise))
}

func TestSemanticBonusCapped(t *testing.T) {
	terms := []string{"deep learning", "deep learning", "deep learning", "deep learning"}
	areas := []string{"learning deep", "deep learning"}
	// 8 matching pairs at 3 points each, capped.
	require.Equal(t, 20.0, semanticBonus(terms, areas))
	require.Zero(t, semanticBonus([]string{"deep reinforcement learning"}, []string{"deep learning systems"}))
}

func TestNameVariants(t *testing.T) {
	variants := NameVariants("Ada", "Lovelace")
	require.Equal(t, []string{
		"ada lovelace",
		"lovelace ada",
		"lovelace, ada",
		"lovelace, a.",
		"lovelace a",
		"a. lovelace",
		"a lovelace",
	}, variants)

	require.Equal(t, []string{"curie"}, NameVariants("", "Curie"))
	require.Nil(t, NameVariants(" ", ""))
}

func TestCitationScore(t *testing.T) {
	candidate := ReviewerCandidate{FirstName: "Ada", LastName: "Lovelace"}

	references := []string{
		"Lovelace, A. (1843). Notes on the Analytical Engine.",
		"Smith J, Doe R. Unrelated work. 2020.",
		"A. Lovelace and C. Babbage, Sketch of the engine.",
	}
	require.Equal(t, 60.0, CitationScore(candidate, references))

	many := make([]string, 5)
	for i := range many {
		many[i] = "Ada Lovelace et al."
	}
	require.Equal(t, 100.0, CitationScore(candidate, many))
	require.Zero(t, CitationScore(ReviewerCandidate{}, references))
}

func TestQualityScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate ReviewerCandidate
		want      float64
	}{
		{"baseline", ReviewerCandidate{}, 50},
		{"capped components", ReviewerCandidate{HIndex: 40, PublicationCount: 500, ResponseRate: 1, RecentReviews: 10}, 100},
		{"typical", ReviewerCandidate{HIndex: 10, PublicationCount: 50, ResponseRate: 1}, 80.2},
		{"slow reviewer", ReviewerCandidate{HIndex: 5, AvgReviewTimeDays: 60}, 50 + 10 - 3},
		{"very slow penalty capped", ReviewerCandidate{AvgReviewTimeDays: 200}, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, QualityScore(tt.candidate), 1e-9)
		})
	}
}

func TestScoreRelevanceWeights(t *testing.T) {
	manuscript := ManuscriptContext{FieldOfStudy: "Machine Learning"}
	candidate := ReviewerCandidate{Expertise: []string{"Machine Learning", "NLP"}, HIndex: 10, PublicationCount: 50, ResponseRate: 1}

	breakdown := ScoreRelevance(manuscript, candidate)
	require.InDelta(t, 43, breakdown.Expertise, 1e-9)
	require.Zero(t, breakdown.Citation)
	require.InDelta(t, 80.2, breakdown.Quality, 1e-9)
	require.InDelta(t, 43*0.4+80.2*0.3, breakdown.Relevance, 1e-9)
}

func TestAffiliationDiversity(t *testing.T) {
	scorer := AffiliationDiversity{}
	require.Equal(t, 50.0, scorer.Score(ReviewerCandidate{}, nil))
	require.Equal(t, 60.0, scorer.Score(ReviewerCandidate{Affiliation: "ETH Zurich"}, nil))
}
