// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIURL is the service base URL used when nothing else is configured.
const DefaultAPIURL = "http://localhost:5000/"

// Environment variables read by FromEnv.
const (
	EnvAPIURL         = "ATS_API_URL"
	EnvSessionFile    = "ATS_SESSION_FILE"
	EnvLogLevel       = "ATS_LOG_LEVEL"
	EnvLogFile        = "ATS_LOG_FILE"
	EnvRequestTimeout = "ATS_REQUEST_TIMEOUT_SECONDS"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Service
	APIURL                string `json:"api_url,omitempty"`                 // Base URL of the analysis service
	RequestTimeoutSeconds int    `json:"request_timeout_seconds,omitempty"` // 0 means no timeout

	// Paths
	SessionFile string `json:"session_file,omitempty"` // Where the bearer token is persisted
	OutputDir   string `json:"output_dir,omitempty"`   // Where downloaded artifacts are written

	// Diagnostics
	LogLevel  string `json:"log_level,omitempty"`  // debug, info, warn, error
	LogFormat string `json:"log_format,omitempty"` // console or json
	LogFile   string `json:"log_file,omitempty"`   // Optional rotating log file
	Verbose   bool   `json:"verbose,omitempty"`    // Stream the run log while a request is in flight
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv returns a Config populated from ATS_* environment variables.
func FromEnv() (Config, error) {
	cfg := Config{
		APIURL:      os.Getenv(EnvAPIURL),
		SessionFile: os.Getenv(EnvSessionFile),
		LogLevel:    os.Getenv(EnvLogLevel),
		LogFile:     os.Getenv(EnvLogFile),
	}

	if raw := os.Getenv(EnvRequestTimeout); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %v", EnvRequestTimeout, err)
		}
		cfg.RequestTimeoutSeconds = seconds
	}

	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.APIURL != "" {
		u, err := url.Parse(c.APIURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: 'api_url' must be an absolute URL, got %q", c.APIURL)
		}
	}

	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'request_timeout_seconds' must be non-negative")
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "console", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be console or json, got %q", c.LogFormat)
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIURL == "" {
		result.APIURL = defaults.APIURL
	}
	if result.SessionFile == "" {
		result.SessionFile = defaults.SessionFile
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.LogFile == "" {
		result.LogFile = defaults.LogFile
	}

	// Int fields: use default if zero
	if result.RequestTimeoutSeconds == 0 {
		result.RequestTimeoutSeconds = defaults.RequestTimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Endpoint returns the absolute URL of an API path on the configured service.
func (c *Config) Endpoint(path string) string {
	return JoinURL(c.APIURL, path)
}

// JoinURL joins a base URL and an API path with exactly one slash.
// An empty base falls back to DefaultAPIURL.
func JoinURL(base, path string) string {
	if base == "" {
		base = DefaultAPIURL
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// RequestTimeout returns the per-request timeout; zero disables it.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
