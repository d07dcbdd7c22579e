package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	BackendSQLite   = "sqlite"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"

	BackupLocal = "local"
	BackupS3    = "s3"
)

type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"sqlite"`
	DBPath         string `env:"DB_PATH" envDefault:"/data/shishalog.db"`
	BadgerPath     string `env:"BADGER_PATH" envDefault:"/data/badger"`
	PostgresDSN    string `env:"POSTGRES_DSN"`
	// StorageQuotaBytes caps the combined size of all records; 0 disables it.
	StorageQuotaBytes int64 `env:"STORAGE_QUOTA_BYTES" envDefault:"5242880"`

	BackupBackend     string `env:"BACKUP_BACKEND" envDefault:"local"`
	BackupLocalPath   string `env:"BACKUP_LOCAL_PATH" envDefault:"/data/backups"`
	BackupS3Bucket    string `env:"BACKUP_S3_BUCKET"`
	BackupS3Region    string `env:"BACKUP_S3_REGION" envDefault:"us-east-1"`
	BackupS3Endpoint  string `env:"BACKUP_S3_ENDPOINT"`
	BackupS3PathStyle bool   `env:"BACKUP_S3_PATH_STYLE"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	RateLimitRPS       float64  `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst     int      `env:"RATE_LIMIT_BURST" envDefault:"20"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	LogFile   string `env:"LOG_FILE"`
}

// Load reads the configuration from the environment and checks that the
// selected backends have what they need.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case BackendSQLite, BackendBadger, BackendMemory:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.BackupBackend {
	case BackupLocal:
	case BackupS3:
		if c.BackupS3Bucket == "" {
			return fmt.Errorf("BACKUP_S3_BUCKET is required when BACKUP_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unknown BACKUP_BACKEND %q", c.BackupBackend)
	}

	if c.StorageQuotaBytes < 0 {
		return fmt.Errorf("STORAGE_QUOTA_BYTES must not be negative")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}
