package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "gemini", cfg.Backend)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DESCRIBER_BACKEND", "claude")
	t.Setenv("API_KEY", "sk-test123")
	t.Setenv("MODEL", "claude-3-5-haiku-latest")
	t.Setenv("SESSION_TTL", "5m")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "claude", cfg.Backend)
	assert.Equal(t, "sk-test123", cfg.APIKey)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.Model)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
}

func TestLoadBadDurationFallsBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg := Load()

	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestValidateRequiresAPIKey(t *testing.T) {
	cfg := Load()
	cfg.APIKey = ""

	err := cfg.Validate()

	assert.ErrorContains(t, err, "API_KEY")
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := Load()
	cfg.APIKey = "sk-test"
	cfg.Backend = "ouija"

	err := cfg.Validate()

	assert.ErrorContains(t, err, "DESCRIBER_BACKEND")
}

func TestValidateAccepts(t *testing.T) {
	cfg := Load()
	cfg.APIKey = "sk-test"

	assert.NoError(t, cfg.Validate())
}
