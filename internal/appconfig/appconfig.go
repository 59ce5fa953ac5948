// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// LegacyConfigPath is the path to the configuration file used in previous versions.
	LegacyConfigPath = "config.json"
	// DefaultHostURL is the standard local Ollama endpoint.
	DefaultHostURL = "http://localhost:11434"
	// defaultRequestTimeout is the default timeout for HTTP requests.
	defaultRequestTimeout = 600 * time.Second
)

// Config represents the top-level application configuration.
type Config struct {
	HostURL        string   `json:"host,omitempty" mapstructure:"host"`
	TimeoutSeconds int      `json:"timeout,omitempty" mapstructure:"timeout"`
	Prompts        []string `json:"prompts,omitempty" mapstructure:"prompts"`
	ResultsDir     string   `json:"resultsDir,omitempty" mapstructure:"resultsDir"`
	Unload         bool     `json:"unload" mapstructure:"unload"`
	Debug          bool     `json:"debug" mapstructure:"debug"`
	LogFile        string   `json:"logFile,omitempty" mapstructure:"logFile"`
	ConfigPath     string   `json:"-" mapstructure:"-"`
}

// DefaultPrompts returns a fresh copy of the built-in benchmark prompts.
// Callers receive a new slice on every call so no run can mutate another's
// defaults.
func DefaultPrompts() []string {
	return []string{
		"Why is the sky blue?",
		"Write a report on the financials of Microsoft",
	}
}

// Host returns the configured Ollama base URL, falling back to the default
// local endpoint.
func (c Config) Host() string {
	if host := strings.TrimSpace(c.HostURL); host != "" {
		return strings.TrimRight(host, "/")
	}
	return DefaultHostURL
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "ollamabench.log"
}

// BenchmarkPrompts returns the configured prompts, or the built-in defaults
// when none are set. The result is always a fresh slice.
func (c Config) BenchmarkPrompts() []string {
	if len(c.Prompts) == 0 {
		return DefaultPrompts()
	}
	return append([]string(nil), c.Prompts...)
}
