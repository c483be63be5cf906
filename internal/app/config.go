package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config represents the runtime configuration for the reviewerdesk backend.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Email       EmailConfig       `mapstructure:"email"`
	Matching    MatchingConfig    `mapstructure:"matching"`
	Invitations InvitationConfig  `mapstructure:"invitations"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Monitoring  MonitoringConfig  `mapstructure:"monitoring"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig describes connection options for the supported databases.
type DatabaseConfig struct {
	Driver          string            `mapstructure:"driver"`
	Path            string            `mapstructure:"path"`
	DSN             string            `mapstructure:"dsn"`
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Name            string            `mapstructure:"name"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	Options         map[string]string `mapstructure:"options"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration     `mapstructure:"conn_max_lifetime"`
}

// AuthConfig captures editor authentication settings.
type AuthConfig struct {
	JWT JWTSettings `mapstructure:"jwt"`
}

// JWTSettings configures JWT access tokens.
type JWTSettings struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"access_token_ttl"`
}

// EmailConfig captures outbound email settings.
type EmailConfig struct {
	SMTP SMTPConfig `mapstructure:"smtp"`
}

// SMTPConfig defines SMTP dialer settings for sending email.
type SMTPConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from"`
	UseTLS   bool          `mapstructure:"use_tls"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// MatchingConfig holds the operational thresholds of reviewer matching. Scoring weights are
// fixed in the matching package.
type MatchingConfig struct {
	PoolMultiplier      int           `mapstructure:"pool_multiplier"`
	DefaultMaxLoad      int           `mapstructure:"default_max_load"`
	MinAvailability     float64       `mapstructure:"min_availability"`
	HistoryWindow       time.Duration `mapstructure:"history_window"`
	InactivityWindow    time.Duration `mapstructure:"inactivity_window"`
	ConflictTimeout     time.Duration `mapstructure:"conflict_timeout"`
	ConflictConcurrency int           `mapstructure:"conflict_concurrency"`
}

// InvitationConfig controls invitation campaigns.
type InvitationConfig struct {
	ReviewDeadlineDays   int     `mapstructure:"review_deadline_days"`
	ResponseDeadlineDays int     `mapstructure:"response_deadline_days"`
	ReminderDays         []int   `mapstructure:"reminder_days"`
	StaggerIntervalHours float64 `mapstructure:"stagger_interval_hours"`
	DispatchWorkers      int     `mapstructure:"dispatch_workers"`
	DispatchBatchSize    int     `mapstructure:"dispatch_batch_size"`
	TokenBytes           int     `mapstructure:"token_bytes"`
	BaseURL              string  `mapstructure:"base_url"`
	SendRetries          uint    `mapstructure:"send_retries"`
	// ReminderGrace is how late a reminder may still go out after its due time.
	ReminderGrace time.Duration `mapstructure:"reminder_grace"`
}

// MaintenanceConfig holds the cron specifications of the background jobs.
type MaintenanceConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	DispatchSchedule string `mapstructure:"dispatch_schedule"`
	ExpirySchedule   string `mapstructure:"expiry_schedule"`
}

// MonitoringConfig enables health checks and metrics.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Health     HealthConfig     `mapstructure:"health_check"`
}

// PrometheusConfig toggles metrics endpoints.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// HealthConfig toggles health endpoints.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("REVIEWERDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects settings the services cannot honour.
func (c Config) Validate() error {
	inv := c.Invitations
	switch {
	case inv.ReviewDeadlineDays <= 0 || inv.ResponseDeadlineDays <= 0:
		return errors.New("config: invitation deadlines must be positive")
	case inv.ResponseDeadlineDays > inv.ReviewDeadlineDays:
		return errors.New("config: response deadline must not exceed the review deadline")
	case inv.StaggerIntervalHours < 0:
		return errors.New("config: stagger interval must not be negative")
	}
	for _, days := range inv.ReminderDays {
		if days <= 0 {
			return fmt.Errorf("config: invalid reminder offset %d", days)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/reviewerdesk.sqlite")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("auth.jwt.issuer", "reviewerdesk")
	v.SetDefault("auth.jwt.access_token_ttl", "15m")

	v.SetDefault("email.smtp.enabled", false)
	v.SetDefault("email.smtp.host", "")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.use_tls", true)
	v.SetDefault("email.smtp.timeout", "10s")

	v.SetDefault("matching.pool_multiplier", 3)
	v.SetDefault("matching.default_max_load", 3)
	v.SetDefault("matching.min_availability", 30)
	v.SetDefault("matching.history_window", "8760h")
	v.SetDefault("matching.inactivity_window", "17520h")
	v.SetDefault("matching.conflict_timeout", "3s")
	v.SetDefault("matching.conflict_concurrency", 8)

	v.SetDefault("invitations.review_deadline_days", 21)
	v.SetDefault("invitations.response_deadline_days", 7)
	v.SetDefault("invitations.reminder_days", []int{7, 3, 1})
	v.SetDefault("invitations.stagger_interval_hours", 0)
	v.SetDefault("invitations.dispatch_workers", 4)
	v.SetDefault("invitations.dispatch_batch_size", 100)
	v.SetDefault("invitations.token_bytes", 32)
	v.SetDefault("invitations.base_url", "http://localhost:8000")
	v.SetDefault("invitations.send_retries", 3)
	v.SetDefault("invitations.reminder_grace", "24h")

	v.SetDefault("maintenance.enabled", true)
	v.SetDefault("maintenance.dispatch_schedule", "@every 1m")
	v.SetDefault("maintenance.expiry_schedule", "@every 15m")

	v.SetDefault("monitoring.prometheus.enabled", true)
	v.SetDefault("monitoring.prometheus.endpoint", "/metrics")
	v.SetDefault("monitoring.health_check.enabled", true)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.WeaklyTypedInput = true
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
