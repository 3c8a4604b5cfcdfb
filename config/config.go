package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// Config is the application configuration, loadable from a JSON file.
// All fields are optional; missing values use defaults.
type Config struct {
	Port        string              `json:"port,omitempty"`         // HTTP port for `serve`
	DataDir     string              `json:"data_dir,omitempty"`     // Directory for gob snapshots
	DatabaseURL string              `json:"database_url,omitempty"` // PostgreSQL fingerprint cache (optional)
	MaxWorkers  int                 `json:"max_workers,omitempty"`  // Concurrent comparisons per batch
	MaxJobs     int                 `json:"max_jobs,omitempty"`     // Concurrent background jobs
	Fingerprint FingerprintSettings `json:"fingerprint"`
}

// Default returns the configuration used when nothing is configured.
func Default() Config {
	return Config{
		Port:        "8080",
		DataDir:     "./winnow_data",
		MaxWorkers:  runtime.NumCPU(),
		MaxJobs:     2,
		Fingerprint: DefaultFingerprintSettings(),
	}
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

	data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == "" {
		result.Port = defaults.Port
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.MaxWorkers == 0 {
		result.MaxWorkers = defaults.MaxWorkers
	}
	if result.MaxJobs == 0 {
		result.MaxJobs = defaults.MaxJobs
	}
	if result.Fingerprint.KValue == 0 {
		result.Fingerprint.KValue = defaults.Fingerprint.KValue
	}
	if result.Fingerprint.WindowSizeValue == 0 {
		result.Fingerprint.WindowSizeValue = defaults.Fingerprint.WindowSizeValue
	}
	if result.Fingerprint.HashAlgorithm == "" {
		result.Fingerprint.HashAlgorithm = defaults.Fingerprint.HashAlgorithm
	}

	return result
}

// ApplyEnv overrides fields from WINNOW_PORT, WINNOW_DATA_DIR, WINNOW_MAX_WORKERS and DATABASE_URL.
func (c *Config) ApplyEnv() error {
	if port := os.Getenv("WINNOW_PORT"); port != "" {
		c.Port = port
	}
	if dir := os.Getenv("WINNOW_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.DatabaseURL = url
	}
	if workers := os.Getenv("WINNOW_MAX_WORKERS"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return fmt.Errorf("invalid WINNOW_MAX_WORKERS %q: %w", workers, err)
		}
		c.MaxWorkers = n
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.MaxWorkers < 1 {
		return fmt.Errorf("config error: 'max_workers' must be at least 1")
	}
	if c.MaxJobs < 1 {
		return fmt.Errorf("config error: 'max_jobs' must be at least 1")
	}
	if err := c.Fingerprint.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}
