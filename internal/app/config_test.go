package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/reviewerdesk/internal/auth"
)

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata"))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Host)
	require.Equal(t, 5433, cfg.Database.Port)
	require.Equal(t, "disable", cfg.Database.Options["sslmode"])

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL)

	require.True(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, 2525, cfg.Email.SMTP.Port)
	require.Equal(t, 15*time.Second, cfg.Email.SMTP.Timeout)

	require.Equal(t, 4, cfg.Matching.PoolMultiplier)
	require.Equal(t, 5, cfg.Matching.DefaultMaxLoad)
	require.Equal(t, 750*time.Millisecond, cfg.Matching.ConflictTimeout)
	require.Equal(t, 2, cfg.Matching.ConflictConcurrency)
	require.Equal(t, 365*24*time.Hour, cfg.Matching.HistoryWindow)

	require.Equal(t, 28, cfg.Invitations.ReviewDeadlineDays)
	require.Equal(t, 10, cfg.Invitations.ResponseDeadlineDays)
	require.Equal(t, []int{10, 5, 2}, cfg.Invitations.ReminderDays)
	require.Equal(t, 6.0, cfg.Invitations.StaggerIntervalHours)
	require.Equal(t, 8, cfg.Invitations.DispatchWorkers)
	require.Equal(t, 32, cfg.Invitations.TokenBytes)

	require.Equal(t, "@every 30s", cfg.Maintenance.DispatchSchedule)
	require.Equal(t, "@hourly", cfg.Maintenance.ExpirySchedule)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "./data/reviewerdesk.sqlite", cfg.Database.Path)
	require.Equal(t, 15*time.Minute, cfg.Auth.JWT.TTL)
	require.False(t, cfg.Email.SMTP.Enabled)

	require.Equal(t, 3, cfg.Matching.PoolMultiplier)
	require.Equal(t, 3, cfg.Matching.DefaultMaxLoad)
	require.Equal(t, 30.0, cfg.Matching.MinAvailability)
	require.Equal(t, 3*time.Second, cfg.Matching.ConflictTimeout)
	require.Equal(t, 8, cfg.Matching.ConflictConcurrency)

	require.Equal(t, 21, cfg.Invitations.ReviewDeadlineDays)
	require.Equal(t, 7, cfg.Invitations.ResponseDeadlineDays)
	require.Equal(t, []int{7, 3, 1}, cfg.Invitations.ReminderDays)
	require.Equal(t, 4, cfg.Invitations.DispatchWorkers)
	require.Equal(t, uint(3), cfg.Invitations.SendRetries)
	require.Equal(t, 24*time.Hour, cfg.Invitations.ReminderGrace)

	require.True(t, cfg.Maintenance.Enabled)
	require.Equal(t, "@every 1m", cfg.Maintenance.DispatchSchedule)
	require.Equal(t, "@every 15m", cfg.Maintenance.ExpirySchedule)
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("REVIEWERDESK_SERVER_PORT", "7000")
	t.Setenv("REVIEWERDESK_MATCHING_CONFLICT_TIMEOUT", "5s")
	t.Setenv("REVIEWERDESK_INVITATIONS_REMINDER_DAYS", "5,2")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 7000, cfg.Server.Port)
	require.Equal(t, 5*time.Second, cfg.Matching.ConflictTimeout)
	require.Equal(t, []int{5, 2}, cfg.Invitations.ReminderDays)
}

func TestLoadConfigRejectsInvalidDeadlines(t *testing.T) {
	dir := t.TempDir()
	content := []byte("invitations:\n  review_deadline_days: 5\n  response_deadline_days: 9\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	_, err := LoadConfig(dir)
	require.ErrorContains(t, err, "response deadline")
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Invitations: InvitationConfig{ReviewDeadlineDays: 21, ResponseDeadlineDays: 7, ReminderDays: []int{3}}}
	require.NoError(t, valid.Validate())

	invalid := valid
	invalid.Invitations.ReminderDays = []int{0}
	require.Error(t, invalid.Validate())

	invalid = valid
	invalid.Invitations.StaggerIntervalHours = -1
	require.Error(t, invalid.Validate())

	invalid = valid
	invalid.Invitations.ReviewDeadlineDays = 0
	require.Error(t, invalid.Validate())
}

func TestConfigAdapters(t *testing.T) {
	authCfg := AuthConfig{JWT: JWTSettings{Secret: "s", Issuer: "i"}}
	jwtCfg := authCfg.JWTServiceConfig()
	require.Equal(t, "s", jwtCfg.Secret)
	require.Equal(t, auth.DefaultAccessTokenTTL, jwtCfg.AccessTokenTTL)

	dbCfg := DatabaseConfig{Driver: " mysql ", Host: "h", Port: 3306, Name: "n", Username: "u", Password: "p"}.ConnectionConfig()
	require.Equal(t, "mysql", dbCfg.Driver)
	require.Equal(t, "u", dbCfg.User)
	require.Equal(t, "n", dbCfg.Name)

	policy := MatchingConfig{DefaultMaxLoad: 6}.WorkloadPolicy()
	require.Equal(t, 6, policy.MaxLoad)
	require.Equal(t, 30.0, policy.MinAvailability)

	require.Len(t, MatchingConfig{}.MatchingOptions(), 3)
	require.Len(t, MatchingConfig{}.ConflictOptions(), 2)
	require.Len(t, InvitationConfig{}.InvitationOptions(), 4)
	require.Len(t, InvitationConfig{}.CampaignOptions(), 2)
	require.Len(t, InvitationConfig{}.MailGatewayOptions(), 2)

	smtp := EmailConfig{SMTP: SMTPConfig{Enabled: true, Host: "smtp", Port: 25}}.SMTPSettings()
	require.True(t, smtp.Enabled)
	require.Equal(t, "smtp", smtp.Host)
}
