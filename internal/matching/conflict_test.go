package matching

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRiskScore(t *testing.T) {
	tests := []struct {
		name      string
		conflicts []ConflictRecord
		want      float64
	}{
		{"none", nil, 0},
		{"single blocking capped", []ConflictRecord{
			NewConflict("r", "a", ConflictAdvisorAdvisee, SeverityBlocking, ""),
		}, 100},
		{"single medium recent institution", []ConflictRecord{
			NewConflict("r", "a", ConflictInstitutionalRecent, SeverityMedium, ""),
		}, 24},
		{"two conflicts scaled", []ConflictRecord{
			NewConflict("r", "a", ConflictCoauthorshipRecent, SeverityHigh, ""),
			NewConflict("r", "a", ConflictCoauthorshipFrequent, SeverityMedium, ""),
		}, (78.0 + 30.0) / 2 * 1.1},
		{"unknown type counts at maximum weight", []ConflictRecord{
			{Type: "bogus", Severity: SeverityLow},
		}, 15},
		{"unknown severity counts as blocking", []ConflictRecord{
			{Type: ConflictFinancialCollaboration, Severity: "extreme"},
		}, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, RiskScore(tt.conflicts), 1e-9)
		})
	}
}

func TestConflictTypeWeightsCoverClosedSet(t *testing.T) {
	for _, ct := range ConflictTypes {
		weight, ok := ct.Weight()
		require.True(t, ok, ct)
		require.Greater(t, weight, 0.0)
	}

	_, err := ParseConflictType("rivalry")
	require.Error(t, err)

	ct, err := ParseConflictType(" Advisor_Advisee ")
	require.NoError(t, err)
	require.Equal(t, ConflictAdvisorAdvisee, ct)

	severity, err := ParseSeverity("HIGH")
	require.NoError(t, err)
	require.Equal(t, SeverityHigh, severity)
}

func TestAssess(t *testing.T) {
	clean := Assess("r1", nil)
	require.True(t, clean.Eligible)
	require.Zero(t, clean.RiskScore)
	require.False(t, clean.HasNonBlocking())

	warned := Assess("r2", []ConflictRecord{
		NewConflict("r2", "a1", ConflictInstitutionalCurrent, SeverityHigh, "both at MIT"),
	})
	require.True(t, warned.Eligible)
	require.True(t, warned.HasNonBlocking())
	require.Equal(t, "institutional_current (high)", warned.Summary())

	blocked := Assess("r3", []ConflictRecord{
		NewConflict("r3", "a1", ConflictAdvisorAdvisee, SeverityBlocking, "advisor"),
	})
	require.False(t, blocked.Eligible)
	require.True(t, blocked.Conflicts[0].IsBlocking)
}

func TestFailSafeAssessment(t *testing.T) {
	assessment := FailSafeAssessment("r1", errors.New("evidence store offline"))
	require.False(t, assessment.Eligible)
	require.Equal(t, 100.0, assessment.RiskScore)
	require.Equal(t, "evidence store offline", assessment.LookupError)
	require.Equal(t, "conflict lookup failed: evidence store offline", assessment.Summary())
}

func TestConflictRulesDetect(t *testing.T) {
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	date := func(year int, month time.Month) time.Time {
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	}
	ended := func(year int, month time.Month) *time.Time {
		ts := date(year, month)
		return &ts
	}

	evidence := ConflictEvidence{
		AuthorIDs: []string{"a1", "a2", "a3"},
		ReviewerAffiliations: []Affiliation{
			{Institution: "MIT", StartedAt: date(2015, 1)},
			{Institution: "Stanford University", StartedAt: date(2012, 1), EndedAt: ended(2024, 6)},
			{Institution: "Oxford", StartedAt: date(2005, 1), EndedAt: ended(2015, 1)},
		},
		AuthorAffiliations: map[string][]Affiliation{
			"a1": {{Institution: "mit", StartedAt: date(2018, 1)}},
			"a2": {{Institution: "Stanford  University", StartedAt: date(2010, 1), EndedAt: ended(2025, 1)}},
			"a3": {{Institution: "Oxford", StartedAt: date(2008, 1)}},
		},
		Collaborations: []Collaboration{
			{CounterpartID: "a1", Kind: CollaborationCoauthorship, JointPublications: 4, LastCollaboratedAt: date(2025, 5)},
			{CounterpartID: "a2", Kind: CollaborationAdvisor},
			{CounterpartID: "not-an-author", Kind: CollaborationAdvisee},
		},
		Declarations: []Declaration{
			{CounterpartID: "a3", Type: "family_personal", Severity: "HIGH", Evidence: "siblings"},
			{CounterpartID: "a3", Type: "rivalry", Severity: "medium"},
			{CounterpartID: "a3", Type: "financial_competing", Severity: "extreme"},
			{CounterpartID: "stranger", Type: "family_personal", Severity: "blocking"},
		},
	}

	conflicts := DefaultConflictRules().Detect("r1", evidence, now)

	type summary struct {
		Type        ConflictType
		Counterpart string
		Severity    Severity
	}
	got := make([]summary, 0, len(conflicts))
	for _, conflict := range conflicts {
		require.Equal(t, "r1", conflict.ReviewerID)
		require.Equal(t, conflict.Severity == SeverityBlocking, conflict.IsBlocking)
		got = append(got, summary{conflict.Type, conflict.CounterpartID, conflict.Severity})
	}

	require.Equal(t, []summary{
		{ConflictAdvisorAdvisee, "a2", SeverityBlocking},
		{ConflictFinancialCompeting, "a3", SeverityBlocking},
		{ConflictCoauthorshipRecent, "a1", SeverityHigh},
		{ConflictFamilyPersonal, "a3", SeverityHigh},
		{ConflictInstitutionalCurrent, "a1", SeverityHigh},
		{ConflictCoauthorshipFrequent, "a1", SeverityMedium},
		{ConflictCustom, "a3", SeverityMedium},
		{ConflictInstitutionalRecent, "a2", SeverityMedium},
	}, got)

	for _, conflict := range conflicts {
		if conflict.Type == ConflictCustom {
			require.Contains(t, conflict.Evidence, `declared type "rivalry"`)
		}
	}
}

func TestConflictRulesOldCollaborationIgnored(t *testing.T) {
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	evidence := ConflictEvidence{
		AuthorIDs: []string{"a1"},
		Collaborations: []Collaboration{
			{CounterpartID: "a1", Kind: CollaborationCoauthorship, JointPublications: 10, LastCollaboratedAt: now.AddDate(-6, 0, 0)},
		},
	}
	require.Empty(t, DefaultConflictRules().Detect("r1", evidence, now))

	evidence.Collaborations[0].LastCollaboratedAt = now.AddDate(-4, 0, 0)
	conflicts := DefaultConflictRules().Detect("r1", evidence, now)
	require.Len(t, conflicts, 1)
	require.Equal(t, ConflictCoauthorshipFrequent, conflicts[0].Type)
}

func TestConflictRulesDeduplicateKeepsMostSevere(t *testing.T) {
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	evidence := ConflictEvidence{
		AuthorIDs: []string{"a1"},
		ReviewerAffiliations: []Affiliation{
			{Institution: "ETH Zurich"},
			{Institution: "eth zurich"},
		},
		AuthorAffiliations: map[string][]Affiliation{
			"a1": {{Institution: "ETH Zurich"}},
		},
		Declarations: []Declaration{
			{CounterpartID: "a1", Type: "institutional_current", Severity: "blocking"},
		},
	}

	conflicts := DefaultConflictRules().Detect("r1", evidence, now)
	require.Len(t, conflicts, 1)
	require.Equal(t, SeverityBlocking, conflicts[0].Severity)
	require.True(t, conflicts[0].IsBlocking)
}

func TestConflictRulesCustomSeverities(t *testing.T) {
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	rules := DefaultConflictRules()
	rules.Severities = map[ConflictType]Severity{ConflictInstitutionalCurrent: SeverityBlocking}

	evidence := ConflictEvidence{
		AuthorIDs:            []string{"a1"},
		ReviewerAffiliations: []Affiliation{{Institution: "KTH"}},
		AuthorAffiliations:   map[string][]Affiliation{"a1": {{Institution: "KTH"}}},
		Collaborations: []Collaboration{
			{CounterpartID: "a1", Kind: CollaborationAdvisee},
		},
	}

	conflicts := rules.Detect("r1", evidence, now)
	require.Len(t, conflicts, 2)
	for _, conflict := range conflicts {
		require.Equal(t, SeverityBlocking, conflict.Severity)
	}
}
