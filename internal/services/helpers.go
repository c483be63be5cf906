package services

import (
	"strings"

	"github.com/charlesng35/reviewerdesk/internal/matching"
	"github.com/charlesng35/reviewerdesk/internal/models"
)

func normaliseIDs(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func containsString(values []string, target string) bool {
	target = strings.TrimSpace(target)
	if target == "" {
		return false
	}
	for _, value := range values {
		if strings.TrimSpace(value) == target {
			return true
		}
	}
	return false
}

func manuscriptContext(m *models.Manuscript) matching.ManuscriptContext {
	return matching.ManuscriptContext{
		ID:           m.ID,
		FieldOfStudy: m.FieldOfStudy,
		Subfield:     m.Subfield,
		Keywords:     append([]string(nil), m.Keywords...),
		AuthorIDs:    normaliseIDs(m.AuthorIDs),
		References:   append([]string(nil), m.References...),
	}
}

func candidateFromReviewer(r models.Reviewer) matching.ReviewerCandidate {
	candidate := matching.ReviewerCandidate{
		ID:               r.ID,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Expertise:        append([]string(nil), r.Expertise...),
		HIndex:           r.HIndex,
		PublicationCount: r.PublicationCount,
		Affiliation:      r.Affiliation,
	}
	if r.LastActiveAt != nil {
		candidate.LastActiveDate = *r.LastActiveAt
	}
	return candidate
}

// invitationRecord maps an invitation onto the assignment history vocabulary.
func invitationRecord(inv models.Invitation) matching.AssignmentRecord {
	return matching.AssignmentRecord{
		ReviewerID:  inv.ReviewerID,
		Status:      string(inv.Status),
		InvitedAt:   inv.CreatedAt,
		RespondedAt: inv.RespondedAt,
	}
}

// mergeHistory combines tracked assignments with invitations issued here. An invitation
// whose reviewer and manuscript already appear in the assignments is skipped.
func mergeHistory(assignments []models.ReviewAssignment, invitations []models.Invitation) map[string][]matching.AssignmentRecord {
	history := make(map[string][]matching.AssignmentRecord)
	tracked := make(map[[2]string]struct{}, len(assignments))
	for _, record := range assignments {
		tracked[[2]string{record.ReviewerID, record.ManuscriptID}] = struct{}{}
		history[record.ReviewerID] = append(history[record.ReviewerID], assignmentRecord(record))
	}
	for _, inv := range invitations {
		if inv.Status == models.InvitationCancelled {
			continue
		}
		if _, ok := tracked[[2]string{inv.ReviewerID, inv.ManuscriptID}]; ok {
			continue
		}
		history[inv.ReviewerID] = append(history[inv.ReviewerID], invitationRecord(inv))
	}
	return history
}

func assignmentRecord(a models.ReviewAssignment) matching.AssignmentRecord {
	return matching.AssignmentRecord{
		ReviewerID:  a.ReviewerID,
		Status:      string(a.Status),
		InvitedAt:   a.InvitedAt,
		RespondedAt: a.RespondedAt,
		CompletedAt: a.CompletedAt,
	}
}
