package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"PORT"`
	GinMode         string        `mapstructure:"GIN_MODE"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	DBDriver        string        `mapstructure:"DB_DRIVER"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	JWTExpiration   time.Duration `mapstructure:"JWT_EXPIRATION"`
	LockTTL         time.Duration `mapstructure:"LOCK_TTL"`
	RosterCacheTTL  time.Duration `mapstructure:"ROSTER_CACHE_TTL"`
	RosterCacheSize int           `mapstructure:"ROSTER_CACHE_SIZE"`
	CORSOrigins     []string      `mapstructure:"CORS_ORIGINS"`
	AdminEmails     []string      `mapstructure:"ADMIN_EMAILS"`
}

const defaultJWTSecret = "your-secret-key-change-this-in-production"

// Load reads configuration from the environment, falling back to defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "host=localhost port=5432 user=myuser password=mypassword dbname=cms_db sslmode=disable")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("LOCK_TTL", "0s")
	v.SetDefault("ROSTER_CACHE_TTL", "30s")
	v.SetDefault("ROSTER_CACHE_SIZE", 128)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("ADMIN_EMAILS", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.CORSOrigins = splitList(strings.Join(cfg.CORSOrigins, ","))
	cfg.AdminEmails = splitList(strings.Join(cfg.AdminEmails, ","))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.JWTExpiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION must be positive")
	}
	if c.LockTTL < 0 {
		return fmt.Errorf("LOCK_TTL must not be negative")
	}
	if c.RosterCacheSize <= 0 {
		return fmt.Errorf("ROSTER_CACHE_SIZE must be positive")
	}
	return nil
}

func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
