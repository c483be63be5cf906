package matching

import (
	"fmt"
	"strings"
	"time"
)

// Affiliation is a span of institutional membership; a nil EndedAt means current.
type Affiliation struct {
	Institution string
	StartedAt   time.Time
	EndedAt     *time.Time
}

// Collaboration kinds understood by the rules.
const (
	CollaborationCoauthorship = "coauthorship"
	CollaborationAdvisor      = "advisor"
	CollaborationAdvisee      = "advisee"
)

// Collaboration is an edge between the reviewer and a counterpart.
type Collaboration struct {
	CounterpartID      string
	Kind               string
	JointPublications  int
	LastCollaboratedAt time.Time
}

// Declaration is a manually declared conflict as stored, before validation.
type Declaration struct {
	CounterpartID string
	Type          string
	Severity      string
	Evidence      string
}

// ConflictEvidence bundles everything known about one reviewer relative to the authors.
type ConflictEvidence struct {
	AuthorIDs            []string
	ReviewerAffiliations []Affiliation
	AuthorAffiliations   map[string][]Affiliation
	Collaborations       []Collaboration
	Declarations         []Declaration
}

// ConflictRules configures rule windows and the severity assigned by each rule.
type ConflictRules struct {
	RecentWindow      time.Duration
	FrequentWindow    time.Duration
	FrequentThreshold int
	Severities        map[ConflictType]Severity
}

// DefaultConflictRules returns the standard rule policy.
func DefaultConflictRules() ConflictRules {
	return ConflictRules{
		RecentWindow:      DefaultRecentWindow,
		FrequentWindow:    DefaultFrequentWindow,
		FrequentThreshold: DefaultFrequentThreshold,
		Severities: map[ConflictType]Severity{
			ConflictInstitutionalCurrent: SeverityHigh,
			ConflictInstitutionalRecent:  SeverityMedium,
			ConflictCoauthorshipRecent:   SeverityHigh,
			ConflictCoauthorshipFrequent: SeverityMedium,
			ConflictAdvisorAdvisee:       SeverityBlocking,
		},
	}
}

func (r ConflictRules) severity(t ConflictType) Severity {
	if s, ok := r.Severities[t]; ok {
		return s
	}
	if s, ok := DefaultConflictRules().Severities[t]; ok {
		return s
	}
	return SeverityHigh
}

// Detect evaluates every rule for one reviewer. Declarations with an unknown type are kept
// as custom conflicts; an unknown declared severity is treated as blocking.
func (r ConflictRules) Detect(reviewerID string, evidence ConflictEvidence, now time.Time) []ConflictRecord {
	if r.RecentWindow <= 0 {
		r.RecentWindow = DefaultRecentWindow
	}
	if r.FrequentWindow <= 0 {
		r.FrequentWindow = DefaultFrequentWindow
	}
	if r.FrequentThreshold <= 0 {
		r.FrequentThreshold = DefaultFrequentThreshold
	}

	authors := make(map[string]struct{}, len(evidence.AuthorIDs))
	for _, id := range evidence.AuthorIDs {
		authors[id] = struct{}{}
	}

	var conflicts []ConflictRecord
	for _, authorID := range evidence.AuthorIDs {
		conflicts = append(conflicts, r.institutional(reviewerID, authorID, evidence.ReviewerAffiliations, evidence.AuthorAffiliations[authorID], now)...)
	}

	for _, collab := range evidence.Collaborations {
		if _, ok := authors[collab.CounterpartID]; !ok {
			continue
		}
		conflicts = append(conflicts, r.collaboration(reviewerID, collab, now)...)
	}

	for _, declaration := range evidence.Declarations {
		if _, ok := authors[declaration.CounterpartID]; !ok {
			continue
		}
		conflicts = append(conflicts, declared(reviewerID, declaration))
	}

	return dedupeConflicts(conflicts)
}

func (r ConflictRules) institutional(reviewerID, authorID string, reviewer, author []Affiliation, now time.Time) []ConflictRecord {
	var out []ConflictRecord
	for _, ra := range reviewer {
		for _, aa := range author {
			institution := normalise(ra.Institution)
			if institution == "" || institution != normalise(aa.Institution) {
				continue
			}

			if ra.EndedAt == nil && aa.EndedAt == nil {
				out = append(out, NewConflict(reviewerID, authorID, ConflictInstitutionalCurrent,
					r.severity(ConflictInstitutionalCurrent),
					fmt.Sprintf("both currently affiliated with %s", ra.Institution)))
				continue
			}

			start := latest(ra.StartedAt, aa.StartedAt)
			end := earliestEnd(ra.EndedAt, aa.EndedAt, now)
			if start.After(end) || end.Before(now.Add(-r.RecentWindow)) {
				continue
			}
			out = append(out, NewConflict(reviewerID, authorID, ConflictInstitutionalRecent,
				r.severity(ConflictInstitutionalRecent),
				fmt.Sprintf("shared affiliation with %s until %s", ra.Institution, end.Format("2006-01-02"))))
		}
	}
	return out
}

func (r ConflictRules) collaboration(reviewerID string, collab Collaboration, now time.Time) []ConflictRecord {
	switch collab.Kind {
	case CollaborationAdvisor, CollaborationAdvisee:
		return []ConflictRecord{NewConflict(reviewerID, collab.CounterpartID, ConflictAdvisorAdvisee,
			r.severity(ConflictAdvisorAdvisee),
			fmt.Sprintf("%s relationship", collab.Kind))}
	case CollaborationCoauthorship:
		var out []ConflictRecord
		if !collab.LastCollaboratedAt.Before(now.Add(-r.RecentWindow)) {
			out = append(out, NewConflict(reviewerID, collab.CounterpartID, ConflictCoauthorshipRecent,
				r.severity(ConflictCoauthorshipRecent),
				fmt.Sprintf("co-authored as recently as %s", collab.LastCollaboratedAt.Format("2006-01-02"))))
		}
		if collab.JointPublications >= r.FrequentThreshold && !collab.LastCollaboratedAt.Before(now.Add(-r.FrequentWindow)) {
			out = append(out, NewConflict(reviewerID, collab.CounterpartID, ConflictCoauthorshipFrequent,
				r.severity(ConflictCoauthorshipFrequent),
				fmt.Sprintf("%d joint publications", collab.JointPublications)))
		}
		return out
	default:
		return nil
	}
}

func declared(reviewerID string, declaration Declaration) ConflictRecord {
	evidence := strings.TrimSpace(declaration.Evidence)
	if evidence == "" {
		evidence = "declared conflict"
	}

	t, err := ParseConflictType(declaration.Type)
	if err != nil {
		t = ConflictCustom
		evidence = fmt.Sprintf("%s (declared type %q)", evidence, declaration.Type)
	}
	severity, err := ParseSeverity(declaration.Severity)
	if err != nil {
		severity = SeverityBlocking
	}
	return NewConflict(reviewerID, declaration.CounterpartID, t, severity, evidence)
}

func earliestEnd(a, b *time.Time, now time.Time) time.Time {
	end := now
	if a != nil && a.Before(end) {
		end = *a
	}
	if b != nil && b.Before(end) {
		end = *b
	}
	return end
}
