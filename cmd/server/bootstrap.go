package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/reviewerdesk/internal/api"
	"github.com/charlesng35/reviewerdesk/internal/app"
	"github.com/charlesng35/reviewerdesk/internal/app/maintenance"
	iauth "github.com/charlesng35/reviewerdesk/internal/auth"
	"github.com/charlesng35/reviewerdesk/internal/database"
	"github.com/charlesng35/reviewerdesk/internal/repository"
	"github.com/charlesng35/reviewerdesk/internal/services"
	"github.com/charlesng35/reviewerdesk/pkg/logger"
	"github.com/charlesng35/reviewerdesk/pkg/mail"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB          *gorm.DB
	Invitations *services.InvitationService
	Scheduler   *maintenance.Scheduler
	Router      *gin.Engine
}

// bootstrapRuntime initialises the database, domain services, background jobs and the HTTP router.
func bootstrapRuntime(cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	// enable gin debug mod
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}

	mailer, err := mail.NewSMTPMailer(cfg.Email.SMTPSettings())
	if err != nil {
		return nil, fmt.Errorf("initialise mailer: %w", err)
	}
	if !cfg.Email.SMTP.Enabled {
		log.Warn("smtp disabled; reviewer notifications will not be delivered")
	}

	gateway, err := services.NewMailGateway(mailer, cfg.Invitations.MailGatewayOptions()...)
	if err != nil {
		return nil, fmt.Errorf("initialise mail gateway: %w", err)
	}

	store := repository.NewStore(stack.DB)

	conflicts, err := services.NewConflictService(store.Conflicts, cfg.Matching.ConflictOptions()...)
	if err != nil {
		return nil, fmt.Errorf("initialise conflict service: %w", err)
	}

	matchingSvc, err := services.NewMatchingService(store, conflicts, cfg.Matching.MatchingOptions()...)
	if err != nil {
		return nil, fmt.Errorf("initialise matching service: %w", err)
	}

	stack.Invitations, err = services.NewInvitationService(store, conflicts, gateway, cfg.Invitations.InvitationOptions()...)
	if err != nil {
		return nil, fmt.Errorf("initialise invitation service: %w", err)
	}

	campaignSvc, err := services.NewCampaignService(matchingSvc, stack.Invitations, cfg.Invitations.CampaignOptions()...)
	if err != nil {
		return nil, fmt.Errorf("initialise campaign service: %w", err)
	}

	if cfg.Maintenance.Enabled {
		stack.Scheduler = maintenance.NewScheduler(stack.Invitations,
			maintenance.WithDispatchSchedule(cfg.Maintenance.DispatchSchedule),
			maintenance.WithExpirySchedule(cfg.Maintenance.ExpirySchedule),
		)
		if err := stack.Scheduler.Start(); err != nil {
			return nil, fmt.Errorf("start maintenance jobs: %w", err)
		}
	} else {
		log.Warn("maintenance jobs disabled; staggered invitations and reminders will not be dispatched")
	}

	stack.Router, err = api.NewRouter(stack.DB, jwtSvc, cfg, api.Services{
		Matching:    matchingSvc,
		Invitations: stack.Invitations,
		Campaigns:   campaignSvc,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown gracefully stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Scheduler != nil {
		<-s.Scheduler.Stop().Done()
		if err := s.Scheduler.RunOnce(ctx); err != nil {
			log.Warn("maintenance shutdown run failed", zap.Error(err))
		}
	}

	if s.DB != nil {
		closeDatabase(s.DB, log)
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.ConnectionConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db); err != nil {
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", strings.ToLower(strings.TrimSpace(dbCfg.Driver))))

	return db, nil
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("failed to obtain underlying sql DB for closing", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}
