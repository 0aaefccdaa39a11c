// Package config loads the converter configuration from an optional YAML
// file, then applies environment variables and .env files on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Batch   BatchConfig   `yaml:"batch"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP upload API.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	BodyLimitMB int    `yaml:"body_limit_mb"`
	StaticDir   string `yaml:"static_dir"`
}

// BatchConfig configures concurrent document processing.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// HistoryConfig configures the SQLite run history.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// LogConfig configures zerolog output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":8080", BodyLimitMB: 32},
		Batch:   BatchConfig{Workers: 4},
		History: HistoryConfig{DBPath: "./data/history.db"},
		Log:     LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads the YAML file at path, if path is not empty, over the
// defaults. It then loads .env from the current directory, if present, and
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
	}

	// Try to load .env from current directory (ignore error if not found)
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnvOrDefault("STATEMENT_ADDR", c.Server.Addr)
	c.History.DBPath = getEnvOrDefault("STATEMENT_HISTORY_DB", c.History.DBPath)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("LOG_FORMAT", c.Log.Format)

	var err error
	if c.Batch.Workers, err = parseIntEnv("STATEMENT_WORKERS", c.Batch.Workers); err != nil {
		return err
	}
	if c.Server.BodyLimitMB, err = parseIntEnv("STATEMENT_BODY_LIMIT_MB", c.Server.BodyLimitMB); err != nil {
		return err
	}
	if v := os.Getenv("STATEMENT_HISTORY_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean value for STATEMENT_HISTORY_ENABLED: %s", v)
		}
		c.History.Enabled = enabled
	}
	return nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	var problems []string
	if c.Server.Addr == "" {
		problems = append(problems, "server.addr must not be empty")
	}
	if c.Server.BodyLimitMB < 1 || c.Server.BodyLimitMB > 512 {
		problems = append(problems, fmt.Sprintf("server.body_limit_mb must be between 1 and 512, got %d", c.Server.BodyLimitMB))
	}
	if c.Batch.Workers < 1 || c.Batch.Workers > 64 {
		problems = append(problems, fmt.Sprintf("batch.workers must be between 1 and 64, got %d", c.Batch.Workers))
	}
	if c.History.Enabled && c.History.DBPath == "" {
		problems = append(problems, "history.db_path is required when history is enabled")
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format must be console or json, got %q", c.Log.Format))
	}
	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv parses an int from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}

	return parsed, nil
}
