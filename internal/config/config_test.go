package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"SERVER_HOST", "SERVER_PORT", "MAX_CONNECTIONS", "TURN_TIMEOUT_SECS",
		"RECONNECT_GRACE_SECS", "LOG_LEVEL", "AUDIT_DB_PATH", "DATA_DIR",
	}
	for _, k := range keys {
		old, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			}
		})
	}
}

func TestLoadUsesDefaultsWhenUnset(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30, cfg.TurnTimeoutSecs)
	assert.Equal(t, 60, cfg.ReconnectGraceSecs)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "", cfg.AuditDBPath)
	assert.True(t, cfg.MaxConnections >= 100)
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	clearEnv(t)
	os.Setenv("SERVER_HOST", "127.0.0.1")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("MAX_CONNECTIONS", "42")
	os.Setenv("AUDIT_DB_PATH", "/tmp/audit.db")

	cfg := Load()
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 42, cfg.MaxConnections)
	assert.Equal(t, "/tmp/audit.db", cfg.AuditDBPath)
}

func TestLoadFallsBackOnMalformedInt(t *testing.T) {
	clearEnv(t)
	os.Setenv("SERVER_PORT", "not-a-number")
	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
}
