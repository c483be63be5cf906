package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/charlesng35/reviewerdesk/internal/models"
	"github.com/charlesng35/reviewerdesk/internal/repository"
)

// InvitationStats summarises the outcome of a manuscript's invitation campaign.
type InvitationStats struct {
	ManuscriptID         string  `json:"manuscript_id"`
	Total                int     `json:"total"`
	Pending              int     `json:"pending"`
	Accepted             int     `json:"accepted"`
	Declined             int     `json:"declined"`
	Expired              int     `json:"expired"`
	Cancelled            int     `json:"cancelled"`
	AwaitingDispatch     int     `json:"awaiting_dispatch"`
	ResponseRate         float64 `json:"response_rate"`
	AcceptanceRate       float64 `json:"acceptance_rate"`
	AvgResponseTimeHours float64 `json:"avg_response_time_hours"`
	RemindersSent        int     `json:"reminders_sent"`
}

// ComputeInvitationStats aggregates invitations. Response time is measured from creation
// to the reviewer's answer and only covers accepted or declined invitations.
func ComputeInvitationStats(invitations []models.Invitation) InvitationStats {
	var (
		stats         InvitationStats
		responseHours float64
		responses     int
	)

	stats.Total = len(invitations)
	for _, invitation := range invitations {
		stats.RemindersSent += invitation.ReminderCount

		switch invitation.Status {
		case models.InvitationPending:
			stats.Pending++
			if invitation.SentAt == nil {
				stats.AwaitingDispatch++
			}
		case models.InvitationAccepted:
			stats.Accepted++
		case models.InvitationDeclined:
			stats.Declined++
		case models.InvitationExpired:
			stats.Expired++
		case models.InvitationCancelled:
			stats.Cancelled++
		}

		answered := invitation.Status == models.InvitationAccepted || invitation.Status == models.InvitationDeclined
		if answered && invitation.RespondedAt != nil {
			responseHours += invitation.RespondedAt.Sub(invitation.CreatedAt).Hours()
			responses++
		}
	}

	answered := stats.Accepted + stats.Declined
	if stats.Total > 0 {
		stats.ResponseRate = float64(answered) / float64(stats.Total)
	}
	if answered > 0 {
		stats.AcceptanceRate = float64(stats.Accepted) / float64(answered)
	}
	if responses > 0 {
		stats.AvgResponseTimeHours = responseHours / float64(responses)
	}
	return stats
}

// GetInvitationStats loads and aggregates a manuscript's invitations.
func (s *InvitationService) GetInvitationStats(ctx context.Context, manuscriptID string) (*InvitationStats, error) {
	if _, err := s.manuscripts.Get(ctx, manuscriptID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrManuscriptNotFound
		}
		return nil, fmt.Errorf("invitation service: load manuscript: %w", err)
	}

	invitations, err := s.invitations.ListByManuscript(ctx, manuscriptID)
	if err != nil {
		return nil, fmt.Errorf("invitation service: list invitations: %w", err)
	}

	stats := ComputeInvitationStats(invitations)
	stats.ManuscriptID = manuscriptID
	return &stats, nil
}
