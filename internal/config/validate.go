package config

import (
	"fmt"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:", len(e))
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate checks the configuration for errors.
// Returns nil if valid, or ValidationErrors if invalid.
func Validate(cfg Config) error {
	var errs ValidationErrors

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			errs = append(errs, ValidationError{Field: "DATABASE_URL", Message: "required when DB_DRIVER=postgres"})
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{Field: "SQLITE_PATH", Message: "required when DB_DRIVER=sqlite"})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "DB_DRIVER",
			Message: fmt.Sprintf("must be 'postgres' or 'sqlite', got %q", cfg.DBDriver),
		})
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "required"})
	} else if len(cfg.JWTSecret) < 16 {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "must be at least 16 characters"})
	}

	if cfg.TokenTTL <= 0 {
		errs = append(errs, ValidationError{Field: "TOKEN_TTL", Message: "must be positive"})
	}
	if cfg.CacheTTL <= 0 {
		errs = append(errs, ValidationError{Field: "CACHE_TTL", Message: "must be positive"})
	}

	if _, err := time.LoadLocation(cfg.TimeZone); err != nil {
		errs = append(errs, ValidationError{Field: "TIMEZONE", Message: fmt.Sprintf("unknown zone: %v", err)})
	}
	if t, err := time.Parse("15:04", cfg.DefaultMoveTime); err != nil || t.Format("15:04") != cfg.DefaultMoveTime {
		errs = append(errs, ValidationError{
			Field:   "DEFAULT_MOVE_TIME",
			Message: fmt.Sprintf("must be HH:MM, got %q", cfg.DefaultMoveTime),
		})
	}

	if cfg.MetricsEnabled && (cfg.MetricsPath == "" || cfg.MetricsPath[0] != '/') {
		errs = append(errs, ValidationError{Field: "METRICS_PATH", Message: "must start with '/'"})
	}

	if cfg.AdminEmail != "" && len(cfg.AdminPassword) < 8 {
		errs = append(errs, ValidationError{Field: "ADMIN_PASSWORD", Message: "must be at least 8 characters when ADMIN_EMAIL is set"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
