package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A .env file in the
// working directory is loaded first if present (it never overrides
// variables already set in the real environment).
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := strings.TrimSpace(os.Getenv("GLUCOLOG_ADDRESS")); v != "" {
		cfg.EndpointAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("GLUCOLOG_DATABASE_DSN")); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("GLUCOLOG_SECRET_KEY")); v != "" {
		cfg.SecretKey = v
	}
	if v := strings.TrimSpace(os.Getenv("GLUCOLOG_S3_USER")); v != "" {
		cfg.S3RootUser = v
	}
	if v := strings.TrimSpace(os.Getenv("GLUCOLOG_S3_PASSWORD")); v != "" {
		cfg.S3RootPassword = v
	}
	if v := strings.TrimSpace(os.Getenv("GLUCOLOG_S3_BUCKET")); v != "" {
		cfg.S3Bucket = v
	}
	if v := strings.TrimSpace(os.Getenv("GLUCOLOG_S3_ENDPOINT")); v != "" {
		cfg.S3BaseEndpoint = v
	}
}
