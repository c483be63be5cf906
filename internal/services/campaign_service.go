package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/charlesng35/reviewerdesk/internal/models"
	"github.com/charlesng35/reviewerdesk/pkg/logger"
)

const (
	defaultReviewDeadline   = 21 * 24 * time.Hour
	defaultResponseDeadline = 7 * 24 * time.Hour
	defaultCampaignSize     = 3
)

// AutoInviteRequest asks for the best eligible reviewers to be found and invited in one step.
type AutoInviteRequest struct {
	ManuscriptID       string
	InvitedBy          string
	Count              int
	MaxLoad            int
	MinHIndex          int
	MinPublications    int
	ExcludeReviewerIDs []string
	ReviewDeadline     time.Time
	ResponseDeadline   time.Time
	// Stagger nil falls back to the configured campaign stagger.
	Stagger      *StaggerPolicy
	ReminderDays []int
	Message      string
}

// CampaignOption customises CampaignService behaviour.
type CampaignOption func(*CampaignService)

// WithCampaignDeadlines sets the default deadlines relative to the campaign start.
func WithCampaignDeadlines(review, response time.Duration) CampaignOption {
	return func(s *CampaignService) {
		if review > 0 {
			s.reviewDeadline = review
		}
		if response > 0 {
			s.responseDeadline = response
		}
	}
}

// WithCampaignStagger sets the stagger interval applied when a request does not carry a policy.
func WithCampaignStagger(intervalHours float64) CampaignOption {
	return func(s *CampaignService) {
		if intervalHours > 0 {
			s.stagger = StaggerPolicy{Enabled: true, IntervalHours: intervalHours}
		}
	}
}

// WithCampaignClock injects a custom clock primarily for testing.
func WithCampaignClock(clock func() time.Time) CampaignOption {
	return func(s *CampaignService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// CampaignService composes reviewer matching with invitation sending.
type CampaignService struct {
	finder           ReviewerFinder
	sender           InvitationSender
	reviewDeadline   time.Duration
	responseDeadline time.Duration
	stagger          StaggerPolicy
	now              func() time.Time
	log              *zap.Logger
}

// NewCampaignService constructs a CampaignService.
func NewCampaignService(finder ReviewerFinder, sender InvitationSender, opts ...CampaignOption) (*CampaignService, error) {
	if finder == nil || sender == nil {
		return nil, errors.New("campaign service: finder and sender are required")
	}
	service := &CampaignService{
		finder:           finder,
		sender:           sender,
		reviewDeadline:   defaultReviewDeadline,
		responseDeadline: defaultResponseDeadline,
		now:              func() time.Time { return time.Now().UTC() },
		log:              logger.WithModule("campaigns"),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// FindAndInviteReviewers ranks reviewers and invites the top eligible ones.
func (s *CampaignService) FindAndInviteReviewers(ctx context.Context, req AutoInviteRequest) (*BulkInvitationResult, error) {
	count := req.Count
	if count <= 0 {
		count = defaultCampaignSize
	}
	invitedBy := strings.TrimSpace(req.InvitedBy)
	if invitedBy == "" {
		invitedBy = models.SystemEditorID
	}

	found, err := s.finder.FindReviewers(ctx, MatchCriteria{
		ManuscriptID:       req.ManuscriptID,
		Limit:              count * 2,
		MaxLoad:            req.MaxLoad,
		MinHIndex:          req.MinHIndex,
		MinPublications:    req.MinPublications,
		ExcludeReviewerIDs: req.ExcludeReviewerIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("campaign service: find reviewers: %w", err)
	}

	selected := make([]string, 0, count)
	for _, match := range found.Matches {
		if len(selected) == count {
			break
		}
		if match.Eligible {
			selected = append(selected, match.Candidate.ID)
		}
	}
	if len(selected) == 0 {
		s.log.Info("no eligible reviewers found", zap.String("manuscript_id", found.ManuscriptID))
		return &BulkInvitationResult{ManuscriptID: found.ManuscriptID, Results: []InvitationResult{}}, nil
	}

	now := s.now()
	review := req.ReviewDeadline
	if review.IsZero() {
		review = now.Add(s.reviewDeadline)
	}
	response := req.ResponseDeadline
	if response.IsZero() {
		response = now.Add(s.responseDeadline)
		if response.After(review) {
			response = review
		}
	}
	stagger := s.stagger
	if req.Stagger != nil {
		stagger = *req.Stagger
	}

	result, err := s.sender.SendInvitations(ctx, SendInvitationsRequest{
		ManuscriptID:     found.ManuscriptID,
		ReviewerIDs:      selected,
		InvitedBy:        invitedBy,
		ReviewDeadline:   review,
		ResponseDeadline: response,
		Stagger:          stagger,
		ReminderDays:     req.ReminderDays,
		Message:          req.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("campaign service: send invitations: %w", err)
	}
	return result, nil
}
