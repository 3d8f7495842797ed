// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the configuration shared by both services. Each binary reads
// the same file/environment so the token key stays identical across the two
// processes; only the service section differs.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Auth    AuthConfig
	Account ServiceConfig
	Notes   ServiceConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// AuthConfig holds token signing configuration.
// Both services must be constructed with identical key material or
// cross-service tokens become unverifiable.
type AuthConfig struct {
	// PASETO v4 symmetric key for access tokens (32 bytes).
	// Populated from NOTED_AUTH_KEY (hex) or loaded/generated under DataPath.
	TokenKey []byte
	// DataPath is the directory holding the auth.key file (and default SQLite databases).
	DataPath string
	// TokenDuration is the access token lifetime (default: 1h).
	TokenDuration time.Duration
}

// ServiceConfig holds per-service HTTP and storage configuration.
type ServiceConfig struct {
	Port         string
	Driver       string // "sqlite" or "postgres"
	DSN          string
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Directory for key material and SQLite databases")
	tokenDuration := flag.String("token-duration", "", "Access token lifetime (e.g., 1h)")
	dbDriver := flag.String("db-driver", "", "Database driver (sqlite, postgres)")
	accountPort := flag.String("account-port", "", "Account service port (default: 8080)")
	notesPort := flag.String("notes-port", "", "Notes service port (default: 8081)")
	accountDSN := flag.String("account-dsn", "", "Account service database DSN")
	notesDSN := flag.String("notes-dsn", "", "Notes service database DSN")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if present (lowest precedence after defaults).
	loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: firstNonEmpty(*env, os.Getenv("NOTED_ENV"), "development"),
		},
		Logger: LoggerConfig{
			Level: firstNonEmpty(*logLevel, os.Getenv("NOTED_LOG_LEVEL"), "info"),
		},
	}

	cfg.Auth.DataPath = firstNonEmpty(*dataPath, os.Getenv("NOTED_DATA_PATH"), "./data")

	var err error
	cfg.Auth.TokenDuration, err = parseDuration(
		firstNonEmpty(*tokenDuration, os.Getenv("NOTED_TOKEN_DURATION")), time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid token duration: %w", err)
	}

	// An explicit hex key wins over the key file; both services can point at
	// the same value without sharing a filesystem.
	if keyHex := os.Getenv("NOTED_AUTH_KEY"); keyHex != "" {
		key, err := hex.DecodeString(strings.TrimSpace(keyHex))
		if err != nil {
			return nil, fmt.Errorf("NOTED_AUTH_KEY is not valid hex: %w", err)
		}
		cfg.Auth.TokenKey = key
	}

	driver := firstNonEmpty(*dbDriver, os.Getenv("NOTED_DB_DRIVER"), "sqlite")
	origins := splitList(firstNonEmpty(*corsOrigins, os.Getenv("NOTED_CORS_ORIGINS"),
		"http://localhost:3000,http://localhost:3001"))

	rt, err := parseDuration(firstNonEmpty(*readTimeout, os.Getenv("NOTED_READ_TIMEOUT")), 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	wt, err := parseDuration(firstNonEmpty(*writeTimeout, os.Getenv("NOTED_WRITE_TIMEOUT")), 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	it, err := parseDuration(firstNonEmpty(*idleTimeout, os.Getenv("NOTED_IDLE_TIMEOUT")), 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}

	cfg.Account = ServiceConfig{
		Port:         firstNonEmpty(*accountPort, os.Getenv("NOTED_ACCOUNT_PORT"), "8080"),
		Driver:       driver,
		DSN:          firstNonEmpty(*accountDSN, os.Getenv("NOTED_ACCOUNT_DSN"), cfg.Auth.DataPath+"/account.db"),
		CORSOrigins:  origins,
		ReadTimeout:  rt,
		WriteTimeout: wt,
		IdleTimeout:  it,
	}
	cfg.Notes = ServiceConfig{
		Port:         firstNonEmpty(*notesPort, os.Getenv("NOTED_NOTES_PORT"), "8081"),
		Driver:       driver,
		DSN:          firstNonEmpty(*notesDSN, os.Getenv("NOTED_NOTES_DSN"), cfg.Auth.DataPath+"/notes.db"),
		CORSOrigins:  origins,
		ReadTimeout:  rt,
		WriteTimeout: wt,
		IdleTimeout:  it,
	}

	return cfg, nil
}

// loadEnvFile reads KEY=VALUE pairs from a .env file into the process
// environment. Existing environment variables are not overwritten.
func loadEnvFile(path string) {
	f, err := os.Open(path) //#nosec G304 -- path comes from a flag the operator controls
	if err != nil {
		return // Missing .env is fine.
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseDuration parses a duration string, returning the fallback when empty.
func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	return time.ParseDuration(s)
}

// splitList splits a comma-separated list, trimming whitespace.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
