package config

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the API server.
// Values come from the environment, optionally seeded from a .env file.
type Config struct {
	Port string `env:"APP_PORT" envDefault:"8080" json:"port"`

	// DBDriver selects the storage backend: "postgres" or "sqlite".
	DBDriver          string        `env:"DB_DRIVER" envDefault:"postgres" json:"db_driver"`
	DatabaseURL       string        `env:"DATABASE_URL" json:"database_url"`
	SQLitePath        string        `env:"SQLITE_PATH" envDefault:"chaiiwala.db" json:"sqlite_path"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25" json:"db_max_open_conns"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5" json:"db_max_idle_conns"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m" json:"db_conn_max_lifetime"`

	JWTSecret string        `env:"JWT_SECRET" json:"jwt_secret"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h" json:"token_ttl"`

	// RedisAddr enables the shared job cache; empty means in-process cache.
	RedisAddr string        `env:"REDIS_ADDR" json:"redis_addr,omitempty"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"5m" json:"cache_ttl"`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"false" json:"metrics_enabled"`
	MetricsPath    string `env:"METRICS_PATH" envDefault:"/metrics" json:"metrics_path"`

	// TimeZone is the zone job dates and times are interpreted in.
	TimeZone        string `env:"TIMEZONE" envDefault:"Europe/London" json:"timezone"`
	DefaultMoveTime string `env:"DEFAULT_MOVE_TIME" envDefault:"09:00" json:"default_move_time"`

	// AdminEmail seeds an admin account at startup when set.
	AdminEmail    string `env:"ADMIN_EMAIL" json:"admin_email,omitempty"`
	AdminPassword string `env:"ADMIN_PASSWORD" json:"admin_password,omitempty"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Administrator" json:"admin_name"`

	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s" json:"http_shutdown_timeout"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Location resolves TimeZone. Callers should run Validate first.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MaskedJSON returns the configuration as JSON with secrets masked.
func (c Config) MaskedJSON() ([]byte, error) {
	masked := c
	masked.DatabaseURL = maskSecret(c.DatabaseURL)
	masked.JWTSecret = maskSecret(c.JWTSecret)
	masked.AdminPassword = maskSecret(c.AdminPassword)
	return json.MarshalIndent(masked, "", "  ")
}

// maskSecret masks a secret value, preserving only the URI scheme if present.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if len(s) >= len(scheme) && s[:len(scheme)] == scheme {
			return scheme + "***"
		}
	}
	return "***"
}
