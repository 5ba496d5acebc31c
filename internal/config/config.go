package config

import (
	"fmt"
	"strings"
	"time"

	"repairshop_backend/internal/backup"
	"repairshop_backend/pkg/utils"
)

// ID strategies.
const (
	IDStrategyUUID      = "uuid"
	IDStrategySnowflake = "snowflake"
)

// Backup drivers.
const (
	BackupDriverFile     = "file"
	BackupDriverPostgres = "postgres"
	BackupDriverSQLite   = "sqlite"
	BackupDriverS3       = "s3"
)

// AuthConfig controls the optional bearer-token authentication.
type AuthConfig struct {
	Enabled       bool
	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
	StaffUsername string
	StaffPassword string
}

// BackupConfig selects where store snapshots go.
type BackupConfig struct {
	Driver  string
	Dir     string
	DSN     string
	Timeout time.Duration
	S3      backup.S3Config
}

// Config is the process configuration, read from the environment.
type Config struct {
	Port               string
	CORSAllowedOrigins []string
	Log                utils.LogConfig
	StoreLatency       time.Duration
	RequestTimeout     time.Duration
	Location           *time.Location
	IDStrategy         string
	SnowflakeNode      int64
	FixturesDir        string
	SeedFixtures       bool
	NotificationFeed   int
	Auth               AuthConfig
	Backup             BackupConfig
}

// Load reads .env (when present) and the environment into a Config.
func Load() (*Config, error) {
	utils.LoadDotEnv()

	tz := utils.Getenv("TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	cfg := &Config{
		Port:               utils.Getenv("PORT", "8080"),
		CORSAllowedOrigins: utils.GetenvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		Log: utils.LogConfig{
			Level:      utils.Getenv("LOG_LEVEL", "info"),
			File:       utils.Getenv("LOG_FILE", ""),
			MaxSizeMB:  utils.GetenvInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: utils.GetenvInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: utils.GetenvInt("LOG_MAX_AGE_DAYS", 28),
		},
		StoreLatency:     utils.GetenvDuration("STORE_LATENCY", 0),
		RequestTimeout:   utils.GetenvDuration("REQUEST_TIMEOUT", 10*time.Second),
		Location:         loc,
		IDStrategy:       strings.ToLower(utils.Getenv("ID_STRATEGY", IDStrategyUUID)),
		SnowflakeNode:    int64(utils.GetenvInt("SNOWFLAKE_NODE", 1)),
		FixturesDir:      utils.Getenv("FIXTURES_DIR", ""),
		SeedFixtures:     utils.GetenvBool("SEED_FIXTURES", true),
		NotificationFeed: utils.GetenvInt("NOTIFICATION_FEED_SIZE", 50),
		Auth: AuthConfig{
			Enabled:       utils.GetenvBool("AUTH_ENABLED", false),
			JWTSecret:     utils.Getenv("JWT_SECRET", ""),
			TokenTTL:      utils.GetenvDuration("TOKEN_TTL", 12*time.Hour),
			AdminUsername: utils.Getenv("ADMIN_USERNAME", "admin"),
			AdminPassword: utils.Getenv("ADMIN_PASSWORD", ""),
			StaffUsername: utils.Getenv("STAFF_USERNAME", "staff"),
			StaffPassword: utils.Getenv("STAFF_PASSWORD", ""),
		},
		Backup: BackupConfig{
			Driver:  strings.ToLower(utils.Getenv("BACKUP_DRIVER", BackupDriverFile)),
			Dir:     utils.Getenv("BACKUP_DIR", "./backups"),
			DSN:     utils.Getenv("BACKUP_DSN", ""),
			Timeout: utils.GetenvDuration("BACKUP_TIMEOUT", time.Minute),
			S3: backup.S3Config{
				Bucket:          utils.Getenv("BACKUP_S3_BUCKET", ""),
				Region:          utils.Getenv("BACKUP_S3_REGION", "us-east-1"),
				Endpoint:        utils.Getenv("BACKUP_S3_ENDPOINT", ""),
				Prefix:          utils.Getenv("BACKUP_S3_PREFIX", "repairshop"),
				AccessKeyID:     utils.Getenv("BACKUP_S3_ACCESS_KEY_ID", ""),
				SecretAccessKey: utils.Getenv("BACKUP_S3_SECRET_ACCESS_KEY", ""),
				PathStyle:       utils.GetenvBool("BACKUP_S3_PATH_STYLE", false),
			},
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.IDStrategy {
	case IDStrategyUUID, IDStrategySnowflake:
	default:
		return fmt.Errorf("invalid ID_STRATEGY %q (uuid or snowflake)", c.IDStrategy)
	}
	switch c.Backup.Driver {
	case BackupDriverFile, BackupDriverPostgres, BackupDriverSQLite, BackupDriverS3:
	default:
		return fmt.Errorf("invalid BACKUP_DRIVER %q", c.Backup.Driver)
	}
	if c.Auth.Enabled {
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED is set")
		}
		if c.Auth.AdminPassword == "" && c.Auth.StaffPassword == "" {
			return fmt.Errorf("ADMIN_PASSWORD or STAFF_PASSWORD is required when AUTH_ENABLED is set")
		}
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}
