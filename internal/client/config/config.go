// Package config holds runtime settings for the glucolog CLI client.
package config

import "time"

// Config holds runtime settings for the diary client.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend HTTP API.
//   - DatabasePath: path of the local SQLite cache file.
//   - OnlineCheckInterval: how often the client probes server reachability.
type Config struct {
	ServerEndpointAddr  string
	DatabasePath        string
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabasePath = "glucolog.db"
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if present) and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
