package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultTimeout bounds every DataSight request. The upstream can be slow
// but must never be allowed to hang the process indefinitely.
const DefaultTimeout = 30 * time.Second

// Config holds the application configuration
type Config struct {
	// DataSight API
	BaseURL     string
	BearerToken string

	// InsecureSkipVerify disables TLS certificate verification, for internal
	// endpoints whose certificate the host does not trust. Explicit opt-in,
	// never a silent default.
	InsecureSkipVerify bool

	// Timeout for each HTTP request.
	Timeout time.Duration
}

// fileConfig is the shape of the optional config.json file.
type fileConfig struct {
	BaseURL            string `json:"base_url"`
	BearerToken        string `json:"bearer_token"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify"`
	TimeoutSeconds     int    `json:"timeout_seconds"`
}

// Load resolves the configuration. Resolution order, first match wins:
// the config file (default ./config.json), then environment variables
// (a .env file is honored). Credentials still missing afterwards are left
// empty for the interactive prompt flow to collect.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	if path == "" {
		path = "config.json"
	}

	cfg := &Config{Timeout: DefaultTimeout}

	if data, err := os.ReadFile(path); err == nil {
		var fc fileConfig
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, &ConfigError{Field: path, Message: "invalid config file: " + err.Error()}
		}
		cfg.BaseURL = fc.BaseURL
		cfg.BearerToken = fc.BearerToken
		cfg.InsecureSkipVerify = fc.InsecureSkipVerify
		if fc.TimeoutSeconds > 0 {
			cfg.Timeout = time.Duration(fc.TimeoutSeconds) * time.Second
		}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = getEnv("DATASIGHT_BASE_URL", "")
	}
	if cfg.BearerToken == "" {
		cfg.BearerToken = getEnv("DATASIGHT_BEARER_TOKEN", "")
	}
	if !cfg.InsecureSkipVerify {
		cfg.InsecureSkipVerify = getEnvBool("DATASIGHT_INSECURE_SKIP_VERIFY")
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && b
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return &ConfigError{Field: "DATASIGHT_BASE_URL", Message: "DataSight base URL is required"}
	}
	if c.BearerToken == "" {
		return &ConfigError{Field: "DATASIGHT_BEARER_TOKEN", Message: "bearer token is required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
