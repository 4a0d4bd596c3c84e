package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Session strategies the server can run with.
const (
	StrategyJWT     = "jwt"
	StrategySession = "session"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (used by the server-side session strategy)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Auth configuration
	JWTSecret       string
	SessionStrategy string

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// Outbound mail
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	EmailFrom     string
	EmailFromName string

	// Admin allow-list
	AdminEmails []string

	// Base URLs used when building verification/reset links and redirects
	FrontendURL string
	BackendURL  string
}

// LoadConfig creates a new Config instance with values from environment
// variables or Docker secrets, depending on the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBHost:    getEnv("DB_HOST", "localhost"),
		DBPort:    getEnv("DB_PORT", "5432"),
		DBUser:    getEnv("DB_USER", "postgres"),
		DBName:    getEnv("DB_NAME", "myportfolify"),
		DBSSLMode: getEnv("DB_SSL_MODE", "disable"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),
		RedisURL:  os.Getenv("REDIS_URL"),

		SessionStrategy: getEnv("SESSION_STRATEGY", StrategyJWT),

		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		EmailFrom:     getEnv("EMAIL_FROM", "myportfolify@gmail.com"),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "MyPortfolify"),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		BackendURL:  getEnv("BACKEND_URL", "http://localhost:8080"),
	}

	if db := os.Getenv("REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", db, err)
		}
		cfg.RedisDB = n
	}

	// Sensitive values come from Docker secrets, with an environment
	// variable fallback outside production.
	cfg.DBPassword = loadSecret("db_password", "DB_PASSWORD")
	cfg.JWTSecret = loadSecret("jwt_secret", "JWT_SECRET")
	cfg.RedisPassword = loadSecret("redis_password", "REDIS_PASSWORD")
	cfg.SMTPPassword = loadSecret("smtp_password", "SMTP_PASSWORD")
	cfg.GoogleClientSecret = loadSecret("google_client_secret", "GOOGLE_CLIENT_SECRET")

	for _, email := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		email = strings.TrimSpace(email)
		if email != "" {
			cfg.AdminEmails = append(cfg.AdminEmails, strings.ToLower(email))
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// IsAdminEmail reports whether the given email is on the admin allow-list.
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range c.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadSecret prefers a Docker secret file; in non-production environments the
// corresponding environment variable works as a fallback.
func loadSecret(secretName, envName string) string {
	if v := readSecret(secretName); v != "" {
		return v
	}
	if GetEnvironment() != Production {
		return os.Getenv(envName)
	}
	return ""
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
