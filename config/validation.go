package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks that the loaded configuration is usable. The JWT secret
// has no default on purpose: the server must not boot with a guessable one.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.JWT.Secret == "" {
		errs = append(errs, ValidationError{Field: "jwt.secret", Message: "must be set"}.Error())
	}
	if cfg.JWT.ExpireHours <= 0 {
		errs = append(errs, ValidationError{Field: "jwt.expire_hours", Message: "must be positive"}.Error())
	}
	if cfg.Database.Host == "" {
		errs = append(errs, ValidationError{Field: "database.host", Message: "must be set"}.Error())
	}
	if cfg.Database.Name == "" {
		errs = append(errs, ValidationError{Field: "database.name", Message: "must be set"}.Error())
	}
	if cfg.Server.Port == "" {
		errs = append(errs, ValidationError{Field: "server.port", Message: "must be set"}.Error())
	}
	if cfg.Redis.Enabled && cfg.Redis.Addr == "" {
		errs = append(errs, ValidationError{Field: "redis.addr", Message: "must be set when redis is enabled"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
