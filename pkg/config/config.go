package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the finality-bridge service.
type Config struct {
	// Server Configuration
	ListenAddr  string `yaml:"listen_addr"`
	MetricsAddr string `yaml:"metrics_addr"`

	// KV Store Configuration
	DataDir  string `yaml:"data_dir"`
	KVDBName string `yaml:"kvdb_name"`

	// Audit Database Configuration
	DatabaseURL       string        `yaml:"database_url"`
	DBMaxOpenConns    int           `yaml:"db_max_open_conns"`
	DBMaxIdleConns    int           `yaml:"db_max_idle_conns"`
	DBConnMaxLifetime time.Duration `yaml:"db_conn_max_lifetime"`

	// Logging Configuration
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Policy bounds on justification size. Validate requires them to be
	// positive; no other component reads them, so the dispatch surface and
	// the verifier do not bound ancestry headers or precommits by them.
	MaxAncestryProofHeaders int `yaml:"max_ancestry_proof_headers"`
	MaxPrecommits           int `yaml:"max_precommits"`

	// Origin authorization for the two mutating operations (spec §4.H).
	AuthorizedOrigins []string `yaml:"authorized_origins"`
}

// DefaultConfig returns hardcoded defaults suitable for local development.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:              "0.0.0.0:8080",
		MetricsAddr:             "0.0.0.0:9090",
		DataDir:                 "./data",
		KVDBName:                "bridge",
		DBMaxOpenConns:          25,
		DBMaxIdleConns:          5,
		DBConnMaxLifetime:       time.Hour,
		LogLevel:                "info",
		LogFormat:               "text",
		MaxAncestryProofHeaders: 4096,
		MaxPrecommits:           4096,
	}
}

// Load reads configuration from an optional YAML file at path (skipped if
// path is empty or the file does not exist), then applies environment
// variable overrides on top of whatever the file set — so a deployment can
// check in a config file and still override individual values at runtime.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.ListenAddr = getEnv("BRIDGE_LISTEN_ADDR", cfg.ListenAddr)
	cfg.MetricsAddr = getEnv("BRIDGE_METRICS_ADDR", cfg.MetricsAddr)
	cfg.DataDir = getEnv("BRIDGE_DATA_DIR", cfg.DataDir)
	cfg.KVDBName = getEnv("BRIDGE_KVDB_NAME", cfg.KVDBName)
	cfg.DatabaseURL = getEnv("BRIDGE_DATABASE_URL", cfg.DatabaseURL)
	cfg.DBMaxOpenConns = getEnvInt("BRIDGE_DB_MAX_OPEN_CONNS", cfg.DBMaxOpenConns)
	cfg.DBMaxIdleConns = getEnvInt("BRIDGE_DB_MAX_IDLE_CONNS", cfg.DBMaxIdleConns)
	cfg.DBConnMaxLifetime = getEnvDuration("BRIDGE_DB_CONN_MAX_LIFETIME", cfg.DBConnMaxLifetime)
	cfg.LogLevel = getEnv("BRIDGE_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("BRIDGE_LOG_FORMAT", cfg.LogFormat)
	cfg.MaxAncestryProofHeaders = getEnvInt("BRIDGE_MAX_ANCESTRY_PROOF_HEADERS", cfg.MaxAncestryProofHeaders)
	cfg.MaxPrecommits = getEnvInt("BRIDGE_MAX_PRECOMMITS", cfg.MaxPrecommits)
	if origins := getEnv("BRIDGE_AUTHORIZED_ORIGINS", ""); origins != "" {
		cfg.AuthorizedOrigins = parseCommaList(origins)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and internally
// consistent. Call this after Load() before starting the service.
func (c *Config) Validate() error {
	var errs []string

	if c.ListenAddr == "" {
		errs = append(errs, "listen_addr is required")
	}
	if c.MaxAncestryProofHeaders <= 0 {
		errs = append(errs, "max_ancestry_proof_headers must be positive")
	}
	if c.MaxPrecommits <= 0 {
		errs = append(errs, "max_precommits must be positive")
	}
	if len(c.AuthorizedOrigins) == 0 {
		errs = append(errs, "authorized_origins must list at least one origin")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func parseCommaList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
