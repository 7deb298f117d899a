// Package config loads server configuration from the environment,
// grounded on original_source/backend/src/config.rs's load_config, with
// RECONNECT_GRACE_SECS added (SPEC_FULL.md §12's reconnect grace window)
// and MAX_CONNECTIONS defaulted dynamically from host memory rather than a
// fixed constant, per SPEC_FULL.md §11's pbnjay/memory wiring.
package config

import (
	"os"
	"strconv"

	"github.com/pbnjay/memory"
)

// Config holds every tunable the server reads at startup.
type Config struct {
	Host               string
	Port               int
	MaxConnections      int
	TurnTimeoutSecs     int
	ReconnectGraceSecs  int
	LogLevel            string
	AuditDBPath         string
	DataDir             string
}

// Load builds a Config from the environment, falling back to defaults that
// mirror the original Rust server's.
func Load() Config {
	return Config{
		Host:               envString("SERVER_HOST", "0.0.0.0"),
		Port:                envInt("SERVER_PORT", 8080),
		MaxConnections:      envInt("MAX_CONNECTIONS", defaultMaxConnections()),
		TurnTimeoutSecs:     envInt("TURN_TIMEOUT_SECS", 30),
		ReconnectGraceSecs:  envInt("RECONNECT_GRACE_SECS", 60),
		LogLevel:            envString("LOG_LEVEL", "info"),
		AuditDBPath:         envString("AUDIT_DB_PATH", ""),
		DataDir:             envString("DATA_DIR", "./gbridge-data"),
	}
}

// defaultMaxConnections sizes the connection cap off total system memory
// when the operator hasn't pinned one explicitly: a quarter of total memory
// at roughly 64KiB of buffered state per connection, clamped to
// [100, 100000], or 1000 when total memory cannot be read.
func defaultMaxConnections() int {
	total := memory.TotalMemory()
	if total == 0 {
		return 1000
	}
	budget := int(total / (64 * 1024) / 4)
	if budget < 100 {
		return 100
	}
	if budget > 100000 {
		return 100000
	}
	return budget
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
