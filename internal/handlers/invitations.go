package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/reviewerdesk/internal/models"
	"github.com/charlesng35/reviewerdesk/internal/services"
	appErrors "github.com/charlesng35/reviewerdesk/pkg/errors"
	"github.com/charlesng35/reviewerdesk/pkg/response"
)

// InvitationHandler serves invitation campaigns and the reviewer-facing token endpoints.
type InvitationHandler struct {
	invitations *services.InvitationService
	campaigns   *services.CampaignService
}

func NewInvitationHandler(invitations *services.InvitationService, campaigns *services.CampaignService) (*InvitationHandler, error) {
	if invitations == nil || campaigns == nil {
		return nil, appErrors.New("HANDLER_CONFIG", "invitation and campaign services are required", http.StatusInternalServerError)
	}
	return &InvitationHandler{invitations: invitations, campaigns: campaigns}, nil
}

type staggerRequest struct {
	Enabled       bool    `json:"enabled"`
	IntervalHours float64 `json:"interval_hours" validate:"omitempty,gt=0,max=720"`
}

// override is nil when the client sent no stagger object.
func (r *staggerRequest) override() *services.StaggerPolicy {
	if r == nil {
		return nil
	}
	policy := r.policy()
	return &policy
}

func (r *staggerRequest) policy() services.StaggerPolicy {
	if r == nil {
		return services.StaggerPolicy{}
	}
	return services.StaggerPolicy{Enabled: r.Enabled, IntervalHours: r.IntervalHours}
}

type sendInvitationsRequest struct {
	ReviewerIDs      []string        `json:"reviewer_ids" validate:"required,min=1,max=50,dive,notblank"`
	ReviewDeadline   time.Time       `json:"review_deadline" validate:"required"`
	ResponseDeadline time.Time       `json:"response_deadline" validate:"required"`
	Stagger          *staggerRequest `json:"stagger"`
	ReminderDays     []int           `json:"reminder_days" validate:"omitempty,dive,min=1,max=60"`
	Message          string          `json:"message" validate:"max=4000"`
}

type autoInviteRequest struct {
	Count              int             `json:"count" validate:"omitempty,min=1,max=25"`
	MaxLoad            int             `json:"max_load" validate:"omitempty,min=1"`
	MinHIndex          int             `json:"min_h_index" validate:"omitempty,min=0"`
	MinPublications    int             `json:"min_publications" validate:"omitempty,min=0"`
	ExcludeReviewerIDs []string        `json:"exclude_reviewer_ids" validate:"omitempty,dive,notblank"`
	ReviewDeadline     *time.Time      `json:"review_deadline"`
	ResponseDeadline   *time.Time      `json:"response_deadline"`
	Stagger            *staggerRequest `json:"stagger"`
	ReminderDays       []int           `json:"reminder_days" validate:"omitempty,dive,min=1,max=60"`
	Message            string          `json:"message" validate:"max=4000"`
}

type reasonRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// POST /api/manuscripts/:id/invitations
func (h *InvitationHandler) Send(c *gin.Context) {
	var req sendInvitationsRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.invitations.SendInvitations(requestContext(c), services.SendInvitationsRequest{
		ManuscriptID:     c.Param("id"),
		ReviewerIDs:      req.ReviewerIDs,
		InvitedBy:        editorID(c),
		ReviewDeadline:   req.ReviewDeadline,
		ResponseDeadline: req.ResponseDeadline,
		Stagger:          req.Stagger.policy(),
		ReminderDays:     req.ReminderDays,
		Message:          req.Message,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// POST /api/manuscripts/:id/invitations/auto
func (h *InvitationHandler) AutoInvite(c *gin.Context) {
	var req autoInviteRequest
	if !bindOptional(c, &req) {
		return
	}

	auto := services.AutoInviteRequest{
		ManuscriptID:       c.Param("id"),
		InvitedBy:          editorID(c),
		Count:              req.Count,
		MaxLoad:            req.MaxLoad,
		MinHIndex:          req.MinHIndex,
		MinPublications:    req.MinPublications,
		ExcludeReviewerIDs: req.ExcludeReviewerIDs,
		Stagger:            req.Stagger.override(),
		ReminderDays:       req.ReminderDays,
		Message:            req.Message,
	}
	if req.ReviewDeadline != nil {
		auto.ReviewDeadline = req.ReviewDeadline.UTC()
	}
	if req.ResponseDeadline != nil {
		auto.ResponseDeadline = req.ResponseDeadline.UTC()
	}

	result, err := h.campaigns.FindAndInviteReviewers(requestContext(c), auto)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GET /api/manuscripts/:id/invitations
func (h *InvitationHandler) List(c *gin.Context) {
	invitations, err := h.invitations.ListInvitations(requestContext(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, invitations, &response.Meta{Total: len(invitations)})
}

// GET /api/manuscripts/:id/invitations/stats
func (h *InvitationHandler) Stats(c *gin.Context) {
	stats, err := h.invitations.GetInvitationStats(requestContext(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// POST /api/invitations/:token/cancel
func (h *InvitationHandler) Cancel(c *gin.Context) {
	var req reasonRequest
	if !bindOptional(c, &req) {
		return
	}

	invitation, err := h.invitations.CancelInvitation(requestContext(c), c.Param("token"), req.Reason)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, invitation)
}

// POST /api/invitations/:token/accept
func (h *InvitationHandler) Accept(c *gin.Context) {
	h.respond(c, true)
}

// POST /api/invitations/:token/decline
func (h *InvitationHandler) Decline(c *gin.Context) {
	h.respond(c, false)
}

func (h *InvitationHandler) respond(c *gin.Context, accept bool) {
	var req reasonRequest
	if !bindOptional(c, &req) {
		return
	}

	invitation, err := h.invitations.RespondToInvitation(requestContext(c), c.Param("token"), accept, req.Reason)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, respondedInvitation{
		ID:          invitation.ID,
		Status:      invitation.Status,
		RespondedAt: invitation.RespondedAt,
	})
}

// respondedInvitation is the reduced view returned to reviewers, who are not authenticated editors.
type respondedInvitation struct {
	ID          string                  `json:"id"`
	Status      models.InvitationStatus `json:"status"`
	RespondedAt *time.Time              `json:"responded_at,omitempty"`
}
