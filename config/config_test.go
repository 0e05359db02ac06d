// config_test.go - Tests for environment-based configuration

package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "LOG_LEVEL", "GIN_MODE", "MQTT_BROKER", "MQTT_TOPIC_PREFIX", "SHUTDOWN_TIMEOUT", "SEED_USER_EMAIL"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "fsjstd-restapi.db", cfg.DBPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Empty(t, cfg.MQTTBroker)
	assert.Equal(t, "courses", cfg.MQTTTopicPrefix)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.Seed.Enabled())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_PATH", "/tmp/courses.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GIN_MODE", "test")
	t.Setenv("MQTT_BROKER", "tcp://localhost:1883")
	t.Setenv("MQTT_TOPIC_PREFIX", "school/courses/")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("SEED_USER_EMAIL", "joe@smith.com")
	t.Setenv("SEED_USER_PASSWORD", "joepassword")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/tmp/courses.db", cfg.DBPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "test", cfg.GinMode)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, "school/courses", cfg.MQTTTopicPrefix)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.Seed.Enabled())
	assert.Equal(t, "joepassword", cfg.Seed.Password)
}

func TestFromEnvCollectsErrors(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("GIN_MODE", "turbo")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	t.Setenv("SEED_USER_EMAIL", "joe@smith.com")
	t.Setenv("SEED_USER_PASSWORD", "")

	_, err := FromEnv()
	require.Error(t, err)
	for _, key := range []string{"PORT", "LOG_LEVEL", "GIN_MODE", "SHUTDOWN_TIMEOUT", "SEED_USER_PASSWORD"} {
		assert.Contains(t, err.Error(), key)
	}
}
