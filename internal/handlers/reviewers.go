package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/reviewerdesk/internal/services"
	appErrors "github.com/charlesng35/reviewerdesk/pkg/errors"
	"github.com/charlesng35/reviewerdesk/pkg/response"
)

// ReviewerHandler exposes reviewer matching to editors.
type ReviewerHandler struct {
	matching *services.MatchingService
}

func NewReviewerHandler(matching *services.MatchingService) (*ReviewerHandler, error) {
	if matching == nil {
		return nil, appErrors.New("HANDLER_CONFIG", "matching service is required", http.StatusInternalServerError)
	}
	return &ReviewerHandler{matching: matching}, nil
}

type findMatchesRequest struct {
	Limit              int      `json:"limit" validate:"omitempty,min=1,max=100"`
	MaxLoad            int      `json:"max_load" validate:"omitempty,min=1"`
	MinHIndex          int      `json:"min_h_index" validate:"omitempty,min=0"`
	MinPublications    int      `json:"min_publications" validate:"omitempty,min=0"`
	ExcludeReviewerIDs []string `json:"exclude_reviewer_ids" validate:"omitempty,dive,notblank"`
	IncludeInvited     bool     `json:"include_invited"`
}

// POST /api/manuscripts/:id/reviewer-matches
func (h *ReviewerHandler) FindMatches(c *gin.Context) {
	var req findMatchesRequest
	if !bindOptional(c, &req) {
		return
	}

	result, err := h.matching.FindReviewers(requestContext(c), services.MatchCriteria{
		ManuscriptID:       c.Param("id"),
		Limit:              req.Limit,
		MaxLoad:            req.MaxLoad,
		MinHIndex:          req.MinHIndex,
		MinPublications:    req.MinPublications,
		ExcludeReviewerIDs: req.ExcludeReviewerIDs,
		IncludeInvited:     req.IncludeInvited,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
