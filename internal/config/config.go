// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

// Package config loads the chat client configuration.
//
// Configuration is resolved once per chat window open and is immutable for
// that window's lifetime. Sources, in order of precedence:
//   - ONPREM_CHAT_* environment variables
//   - ~/.onprem-chat/config.toml
//   - built-in defaults
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Config holds everything the chat client needs to talk to the backend.
type Config struct {
	// BackendURL is the base URL of the inference backend.
	BackendURL string `toml:"backend_url"`

	// APIKey is the opaque bearer token sent on every request.
	APIKey string `toml:"api_key"`

	// DefaultModel is used when the UI does not select a model.
	DefaultModel string `toml:"default_model"`

	// SystemPrompt optionally seeds saved and quick conversations.
	SystemPrompt string `toml:"system_prompt"`

	// TimeoutSecs is the per-request timeout (default: 30).
	TimeoutSecs int `toml:"timeout_secs"`

	// WorkspaceDir is the root under which the saved conversation lives.
	// Empty means no workspace: saving becomes a logged no-op.
	WorkspaceDir string `toml:"workspace_dir"`
}

// Timeout returns TimeoutSecs as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// Default returns a Config with built-in defaults.
func Default() *Config {
	return &Config{
		BackendURL:   "http://127.0.0.1:11434",
		TimeoutSecs:  30,
		WorkspaceDir: ".",
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".onprem-chat"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load resolves the configuration from file, environment, and defaults.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadFile(cfg, path); err != nil {
				return nil, err
			}
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile merges the TOML file at path into cfg.
func LoadFile(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies ONPREM_CHAT_* environment variables on top of
// whatever was loaded.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("ONPREM_CHAT_URL"); v != "" {
		c.BackendURL = v
	}
	if v := os.Getenv("ONPREM_CHAT_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("ONPREM_CHAT_MODEL"); v != "" {
		c.DefaultModel = v
	}
	if v := os.Getenv("ONPREM_CHAT_SYSTEM_PROMPT"); v != "" {
		c.SystemPrompt = v
	}
	if v := os.Getenv("ONPREM_CHAT_WORKSPACE"); v != "" {
		c.WorkspaceDir = v
	}
	if v := os.Getenv("ONPREM_CHAT_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.TimeoutSecs = secs
		}
	}
}

// Validate checks structural validity. Completeness (key and model present)
// is checked separately, at the point of use, so that a partially configured
// client can still open a window and report exactly what is missing.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return errors.New("backend_url must not be empty")
	}
	parsed, err := url.Parse(c.BackendURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("backend_url %q is not a valid URL", c.BackendURL)
	}
	if c.TimeoutSecs <= 0 {
		return fmt.Errorf("timeout_secs must be positive, got %d", c.TimeoutSecs)
	}
	return nil
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the process-wide configuration, loading it on first use.
// A load failure falls back to defaults so callers always get a usable
// (if incomplete) Config.
func Global() *Config {
	globalMu.RLock()
	if globalCfg != nil {
		defer globalMu.RUnlock()
		return globalCfg
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
			cfg.ApplyEnvOverrides()
		}
		globalCfg = cfg
	}
	return globalCfg
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}

// ResetGlobalForTesting clears the global config so tests start fresh.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = nil
}
