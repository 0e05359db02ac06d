// config.go - Handles configuration for the project

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin" // For validating GIN_MODE
	"github.com/joho/godotenv" // Loads .env files
)

// Config holds all configuration values
type Config struct {
	Port            string        // HTTP listen port
	DBPath          string        // Path (or DSN) of the SQLite database
	LogLevel        slog.Level    // Minimum level written by the logger
	GinMode         string        // debug, release or test
	MQTTBroker      string        // Broker URL; empty disables course events
	MQTTClientID    string        // Client id presented to the broker
	MQTTTopicPrefix string        // Prefix of course event topics
	ShutdownTimeout time.Duration // Budget for draining in-flight requests
	Seed            SeedUser      // Optional account created at startup
}

// SeedUser describes an account created at startup when it does not exist yet.
type SeedUser struct {
	EmailAddress string
	Password     string
	FirstName    string
	LastName     string
}

// Enabled reports whether a seed user was configured.
func (s SeedUser) Enabled() bool {
	return s.EmailAddress != ""
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables, falling back to
// defaults. Every malformed value is reported in a single error.
func FromEnv() (*Config, error) {
	var problems []string

	cfg := &Config{
		Port:            getEnv("PORT", "5000"),
		DBPath:          getEnv("DB_PATH", "fsjstd-restapi.db"),
		GinMode:         getEnv("GIN_MODE", gin.ReleaseMode),
		MQTTBroker:      getEnv("MQTT_BROKER", ""),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "course-api"),
		MQTTTopicPrefix: strings.TrimSuffix(getEnv("MQTT_TOPIC_PREFIX", "courses"), "/"),
		Seed: SeedUser{
			EmailAddress: getEnv("SEED_USER_EMAIL", ""),
			Password:     getEnv("SEED_USER_PASSWORD", ""),
			FirstName:    getEnv("SEED_USER_FIRST_NAME", "Admin"),
			LastName:     getEnv("SEED_USER_LAST_NAME", "User"),
		},
	}

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid PORT %q: expected 1-65535", cfg.Port))
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		problems = append(problems, fmt.Sprintf("invalid LOG_LEVEL: %v", err))
	}

	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		problems = append(problems, fmt.Sprintf("invalid GIN_MODE %q", cfg.GinMode))
	}

	timeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		problems = append(problems, fmt.Sprintf("invalid SHUTDOWN_TIMEOUT: %v", err))
	}
	cfg.ShutdownTimeout = timeout

	if cfg.Seed.Enabled() && cfg.Seed.Password == "" {
		problems = append(problems, "SEED_USER_PASSWORD is required when SEED_USER_EMAIL is set")
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(problems, "\n- "))
	}
	return cfg, nil
}

func getEnv(key, fallback string) string { // Helper to get env var or fallback
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
