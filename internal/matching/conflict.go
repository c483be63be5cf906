package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ConflictType is the closed set of conflict-of-interest categories.
type ConflictType string

const (
	ConflictInstitutionalCurrent   ConflictType = "institutional_current"
	ConflictInstitutionalRecent    ConflictType = "institutional_recent"
	ConflictCoauthorshipRecent     ConflictType = "coauthorship_recent"
	ConflictCoauthorshipFrequent   ConflictType = "coauthorship_frequent"
	ConflictAdvisorAdvisee         ConflictType = "advisor_advisee"
	ConflictFamilyPersonal         ConflictType = "family_personal"
	ConflictFinancialCompeting     ConflictType = "financial_competing"
	ConflictFinancialCollaboration ConflictType = "financial_collaboration"
	ConflictEditorialRelationship  ConflictType = "editorial_relationship"
	ConflictCustom                 ConflictType = "custom"
)

// ConflictTypes lists every conflict category.
var ConflictTypes = []ConflictType{
	ConflictInstitutionalCurrent,
	ConflictInstitutionalRecent,
	ConflictCoauthorshipRecent,
	ConflictCoauthorshipFrequent,
	ConflictAdvisorAdvisee,
	ConflictFamilyPersonal,
	ConflictFinancialCompeting,
	ConflictFinancialCollaboration,
	ConflictEditorialRelationship,
	ConflictCustom,
}

// Weight returns the risk multiplier for the category. ok is false for values outside the
// closed set.
func (t ConflictType) Weight() (weight float64, ok bool) {
	switch t {
	case ConflictAdvisorAdvisee:
		return 1.5, true
	case ConflictFamilyPersonal:
		return 1.4, true
	case ConflictCoauthorshipRecent:
		return 1.3, true
	case ConflictFinancialCompeting:
		return 1.2, true
	case ConflictInstitutionalCurrent:
		return 1.1, true
	case ConflictCoauthorshipFrequent, ConflictCustom:
		return 1.0, true
	case ConflictInstitutionalRecent:
		return 0.8, true
	case ConflictEditorialRelationship:
		return 0.7, true
	case ConflictFinancialCollaboration:
		return 0.6, true
	default:
		return 0, false
	}
}

// ParseConflictType validates a stored conflict category.
func ParseConflictType(value string) (ConflictType, error) {
	t := ConflictType(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := t.Weight(); !ok {
		return "", fmt.Errorf("conflict: unknown type %q", value)
	}
	return t, nil
}

// Severity grades a conflict. Only SeverityBlocking excludes a reviewer.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityBlocking Severity = "blocking"
)

// Weight returns the base risk contribution of the severity.
func (s Severity) Weight() (weight float64, ok bool) {
	switch s {
	case SeverityBlocking:
		return 100, true
	case SeverityHigh:
		return 60, true
	case SeverityMedium:
		return 30, true
	case SeverityLow:
		return 10, true
	default:
		return 0, false
	}
}

func (s Severity) rank() int {
	switch s {
	case SeverityBlocking:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ParseSeverity validates a stored severity.
func ParseSeverity(value string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := s.Weight(); !ok {
		return "", fmt.Errorf("conflict: unknown severity %q", value)
	}
	return s, nil
}

// ConflictRecord is one detected conflict between a reviewer and a manuscript author.
type ConflictRecord struct {
	ReviewerID    string       `json:"reviewer_id"`
	CounterpartID string       `json:"counterpart_id"`
	Type          ConflictType `json:"type"`
	Severity      Severity     `json:"severity"`
	Evidence      string       `json:"evidence"`
	IsBlocking    bool         `json:"is_blocking"`
}

// NewConflict builds a record, deriving IsBlocking from the severity.
func NewConflict(reviewerID, counterpartID string, t ConflictType, severity Severity, evidence string) ConflictRecord {
	return ConflictRecord{
		ReviewerID:    reviewerID,
		CounterpartID: counterpartID,
		Type:          t,
		Severity:      severity,
		Evidence:      evidence,
		IsBlocking:    severity == SeverityBlocking,
	}
}

// ConflictAssessment is the per-reviewer outcome of conflict detection.
type ConflictAssessment struct {
	ReviewerID  string           `json:"reviewer_id"`
	Conflicts   []ConflictRecord `json:"conflicts"`
	Eligible    bool             `json:"eligible"`
	RiskScore   float64          `json:"risk_score"`
	LookupError string           `json:"lookup_error,omitempty"`
}

// Assess derives eligibility and risk from detected conflicts.
func Assess(reviewerID string, conflicts []ConflictRecord) ConflictAssessment {
	assessment := ConflictAssessment{
		ReviewerID: reviewerID,
		Conflicts:  conflicts,
		Eligible:   true,
		RiskScore:  RiskScore(conflicts),
	}
	for _, conflict := range conflicts {
		if conflict.IsBlocking {
			assessment.Eligible = false
			break
		}
	}
	return assessment
}

// FailSafeAssessment is used when evidence could not be loaded: the reviewer is treated as
// ineligible at maximum risk rather than silently cleared.
func FailSafeAssessment(reviewerID string, err error) ConflictAssessment {
	message := "conflict lookup failed"
	if err != nil {
		message = err.Error()
	}
	return ConflictAssessment{
		ReviewerID:  reviewerID,
		Eligible:    false,
		RiskScore:   maxRiskScore,
		LookupError: message,
	}
}

// HasNonBlocking reports whether any warning-level conflict is present.
func (a ConflictAssessment) HasNonBlocking() bool {
	for _, conflict := range a.Conflicts {
		if !conflict.IsBlocking {
			return true
		}
	}
	return false
}

// Summary renders a short human readable description of the conflicts.
func (a ConflictAssessment) Summary() string {
	if a.LookupError != "" {
		return "conflict lookup failed: " + a.LookupError
	}
	parts := make([]string, 0, len(a.Conflicts))
	for _, conflict := range a.Conflicts {
		parts = append(parts, fmt.Sprintf("%s (%s)", conflict.Type, conflict.Severity))
	}
	return strings.Join(parts, ", ")
}

// RiskScore averages severity×type weights and scales by the number of conflicts.
// Values outside the closed enumerations count at the maximum weight.
func RiskScore(conflicts []ConflictRecord) float64 {
	if len(conflicts) == 0 {
		return 0
	}

	var total float64
	for _, conflict := range conflicts {
		severity, ok := conflict.Severity.Weight()
		if !ok {
			severity, _ = SeverityBlocking.Weight()
		}
		weight, ok := conflict.Type.Weight()
		if !ok {
			weight, _ = ConflictAdvisorAdvisee.Weight()
		}
		total += severity * weight
	}

	n := float64(len(conflicts))
	score := (total / n) * (1 + conflictCountScale*(n-1))
	return math.Min(score, maxRiskScore)
}

// dedupeConflicts keeps the most severe record per (type, counterpart) pair and orders the
// output deterministically.
func dedupeConflicts(conflicts []ConflictRecord) []ConflictRecord {
	type key struct {
		t           ConflictType
		counterpart string
	}
	best := make(map[key]ConflictRecord, len(conflicts))
	for _, conflict := range conflicts {
		k := key{conflict.Type, conflict.CounterpartID}
		if existing, ok := best[k]; !ok || conflict.Severity.rank() > existing.Severity.rank() {
			best[k] = conflict
		}
	}

	out := make([]ConflictRecord, 0, len(best))
	for _, conflict := range best {
		out = append(out, conflict)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Severity.rank() != out[j].Severity.rank() {
			return out[i].Severity.rank() > out[j].Severity.rank()
		}
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].CounterpartID < out[j].CounterpartID
	})
	return out
}
