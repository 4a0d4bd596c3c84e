package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that the configuration is usable in the current
// environment. Development and test get permissive defaults; production must
// have every secret the auth and session layers depend on.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.SessionStrategy != StrategyJWT && cfg.SessionStrategy != StrategySession {
		errs = append(errs, fmt.Sprintf("unknown session strategy %q (want %q or %q)",
			cfg.SessionStrategy, StrategyJWT, StrategySession))
	}

	if cfg.JWTSecret == "" && cfg.SessionStrategy == StrategyJWT {
		if IsProduction() {
			errs = append(errs, "jwt_secret secret is required")
		} else {
			// Keep local development and tests running without secrets.
			cfg.JWTSecret = "dev-insecure-secret"
		}
	}

	if IsProduction() {
		if cfg.DBPassword == "" {
			errs = append(errs, "db_password secret is required")
		}
		if cfg.SessionStrategy == StrategySession && cfg.RedisPassword == "" && cfg.RedisURL == "" {
			errs = append(errs, "redis_password secret or REDIS_URL is required for the session strategy")
		}
		if len(cfg.AdminEmails) == 0 {
			errs = append(errs, "ADMIN_EMAILS must list at least one admin account")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
