package app

import (
	"strings"
	"time"

	"github.com/charlesng35/reviewerdesk/internal/auth"
	"github.com/charlesng35/reviewerdesk/internal/database"
	"github.com/charlesng35/reviewerdesk/internal/matching"
	"github.com/charlesng35/reviewerdesk/internal/services"
)

const day = 24 * time.Hour

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultAccessTokenTTL
	}

	return auth.JWTConfig{
		Secret:         c.JWT.Secret,
		Issuer:         c.JWT.Issuer,
		AccessTokenTTL: ttl,
	}
}

// ConnectionConfig converts DatabaseConfig into database.Open parameters.
func (c DatabaseConfig) ConnectionConfig() database.Config {
	return database.Config{
		Driver:          strings.TrimSpace(c.Driver),
		Path:            c.Path,
		DSN:             c.DSN,
		Host:            c.Host,
		Port:            c.Port,
		Name:            c.Name,
		User:            c.Username,
		Password:        c.Password,
		Options:         c.Options,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
}

// WorkloadPolicy returns the enrichment thresholds, falling back to package defaults.
func (c MatchingConfig) WorkloadPolicy() matching.WorkloadPolicy {
	policy := matching.DefaultWorkloadPolicy()
	if c.DefaultMaxLoad > 0 {
		policy.MaxLoad = c.DefaultMaxLoad
	}
	if c.MinAvailability > 0 {
		policy.MinAvailability = c.MinAvailability
	}
	if c.InactivityWindow > 0 {
		policy.InactivityWindow = c.InactivityWindow
	}
	return policy
}

// MatchingOptions converts MatchingConfig into MatchingService options.
func (c MatchingConfig) MatchingOptions() []services.MatchingOption {
	return []services.MatchingOption{
		services.WithPoolMultiplier(c.PoolMultiplier),
		services.WithWorkloadPolicy(c.WorkloadPolicy()),
		services.WithHistoryWindow(c.HistoryWindow),
	}
}

// ConflictOptions converts MatchingConfig into ConflictService options.
func (c MatchingConfig) ConflictOptions() []services.ConflictOption {
	return []services.ConflictOption{
		services.WithConflictTimeout(c.ConflictTimeout),
		services.WithConflictConcurrency(c.ConflictConcurrency),
	}
}

// InvitationOptions converts InvitationConfig into InvitationService options.
func (c InvitationConfig) InvitationOptions() []services.InvitationOption {
	return []services.InvitationOption{
		services.WithDispatchWorkers(c.DispatchWorkers),
		services.WithDispatchBatchSize(c.DispatchBatchSize),
		services.WithInvitationTokenSize(c.TokenBytes),
		services.WithDefaultReminderDays(c.ReminderDays),
		services.WithReminderGrace(c.ReminderGrace),
	}
}

// CampaignOptions converts InvitationConfig into CampaignService options.
func (c InvitationConfig) CampaignOptions() []services.CampaignOption {
	return []services.CampaignOption{
		services.WithCampaignDeadlines(time.Duration(c.ReviewDeadlineDays)*day, time.Duration(c.ResponseDeadlineDays)*day),
		services.WithCampaignStagger(c.StaggerIntervalHours),
	}
}

// MailGatewayOptions converts InvitationConfig into MailGateway options.
func (c InvitationConfig) MailGatewayOptions() []services.MailGatewayOption {
	return []services.MailGatewayOption{
		services.WithMailBaseURL(c.BaseURL),
		services.WithMailRetry(c.SendRetries, 0),
	}
}
