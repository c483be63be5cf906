package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/charlesng35/reviewerdesk/internal/app"
	iauth "github.com/charlesng35/reviewerdesk/internal/auth"
	"github.com/charlesng35/reviewerdesk/internal/handlers"
	"github.com/charlesng35/reviewerdesk/internal/middleware"
	"github.com/charlesng35/reviewerdesk/internal/services"
)

const (
	globalRateLimit = 100
	tokenRateLimit  = 10
)

// Services groups the domain services exposed over HTTP.
type Services struct {
	Matching    *services.MatchingService
	Invitations *services.InvitationService
	Campaigns   *services.CampaignService
}

// NewRouter builds the Gin engine, wires middleware and registers the editor and reviewer routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config, svc Services) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	reviewerHandler, err := handlers.NewReviewerHandler(svc.Matching)
	if err != nil {
		return nil, err
	}
	invitationHandler, err := handlers.NewInvitationHandler(svc.Invitations, svc.Campaigns)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	// Basic rate limiting: 100 requests/minute per IP+path
	r.Use(middleware.RateLimit(globalRateLimit, time.Minute))

	if cfg.Monitoring.Health.Enabled {
		r.GET("/health", handlers.Health(db))
	}
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	// Reviewer-facing routes authenticate through the invitation token itself.
	public := r.Group("/api/invitations/:token")
	public.Use(middleware.RateLimit(tokenRateLimit, time.Minute))
	{
		public.POST("/accept", invitationHandler.Accept)
		public.POST("/decline", invitationHandler.Decline)
	}

	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))

	manuscripts := api.Group("/manuscripts/:id")
	{
		manuscripts.POST("/reviewer-matches", reviewerHandler.FindMatches)
		manuscripts.GET("/invitations", invitationHandler.List)
		manuscripts.POST("/invitations", invitationHandler.Send)
		manuscripts.POST("/invitations/auto", invitationHandler.AutoInvite)
		manuscripts.GET("/invitations/stats", invitationHandler.Stats)
	}
	api.POST("/invitations/:token/cancel", invitationHandler.Cancel)

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
