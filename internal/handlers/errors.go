package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/charlesng35/reviewerdesk/internal/services"
	appErrors "github.com/charlesng35/reviewerdesk/pkg/errors"
	"github.com/charlesng35/reviewerdesk/pkg/logger"
	"github.com/charlesng35/reviewerdesk/pkg/response"
)

var errReviewerDirectory = appErrors.New("REVIEWER_DIRECTORY_UNAVAILABLE", "Reviewer directory is unavailable", http.StatusBadGateway)

// writeServiceError maps service sentinel errors onto API errors.
func writeServiceError(c *gin.Context, err error) {
	var appErr *appErrors.AppError
	switch {
	case errors.Is(err, services.ErrManuscriptNotFound):
		appErr = appErrors.ErrNotFound.WithMessage("Manuscript not found")
	case errors.Is(err, services.ErrInvitationNotFound):
		appErr = appErrors.ErrNotFound.WithMessage("Invitation not found")
	case errors.Is(err, services.ErrEditorNotFound):
		appErr = appErrors.ErrForbidden.WithMessage("Editor is unknown or inactive")
	case errors.Is(err, services.ErrInvalidInvitationRequest):
		appErr = appErrors.NewBadRequest(err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		appErr = appErrors.ErrConflict.WithMessage("Invitation is no longer pending")
	case errors.Is(err, services.ErrInvitationExpired):
		appErr = appErrors.ErrGone.WithMessage("Invitation has expired")
	case errors.Is(err, services.ErrReviewerLookup):
		appErr = errReviewerDirectory.WithInternal(err)
	default:
		appErr = appErrors.FromError(err)
	}

	if appErr.StatusCode >= 500 {
		logger.WithModule("http").Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	response.Error(c, appErr)
}
