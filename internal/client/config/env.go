package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A .env file in the
// working directory is loaded first if present (it never overrides
// variables already set in the real environment).
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := strings.TrimSpace(os.Getenv("GLUCOLOG_SERVER")); v != "" {
		cfg.ServerEndpointAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("GLUCOLOG_DB_PATH")); v != "" {
		cfg.DatabasePath = v
	}
	if v := strings.TrimSpace(os.Getenv("GLUCOLOG_ONLINE_CHECK_INTERVAL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.OnlineCheckInterval = d
		}
	}
}
