// Copyright (c) 2025 adjiap
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.BackendURL == "" {
		t.Error("default BackendURL should not be empty")
	}
	if cfg.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d, want 30", cfg.TimeoutSecs)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
backend_url = "http://llm.internal:8080"
api_key = "secret-token"
default_model = "llama3:8b"
system_prompt = "Be concise"
timeout_secs = 45
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Default()
	if err := LoadFile(cfg, path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.BackendURL != "http://llm.internal:8080" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.APIKey != "secret-token" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.DefaultModel != "llama3:8b" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.SystemPrompt != "Be concise" {
		t.Errorf("SystemPrompt = %q", cfg.SystemPrompt)
	}
	if cfg.TimeoutSecs != 45 {
		t.Errorf("TimeoutSecs = %d, want 45", cfg.TimeoutSecs)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("backend_url = [broken"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := LoadFile(Default(), path); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ONPREM_CHAT_URL", "http://override:9999")
	t.Setenv("ONPREM_CHAT_MODEL", "override-model")
	t.Setenv("ONPREM_CHAT_TIMEOUT_SECS", "10")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.BackendURL != "http://override:9999" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.DefaultModel != "override-model" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.TimeoutSecs != 10 {
		t.Errorf("TimeoutSecs = %d, want 10", cfg.TimeoutSecs)
	}
}

func TestApplyEnvOverrides_BadTimeout(t *testing.T) {
	t.Setenv("ONPREM_CHAT_TIMEOUT_SECS", "not-a-number")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.TimeoutSecs != 30 {
		t.Errorf("bad timeout override should keep default, got %d", cfg.TimeoutSecs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty url", func(c *Config) { c.BackendURL = "" }, true},
		{"url without scheme", func(c *Config) { c.BackendURL = "llm.internal:8080" }, true},
		{"zero timeout", func(c *Config) { c.TimeoutSecs = 0 }, true},
		{"negative timeout", func(c *Config) { c.TimeoutSecs = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGlobal_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}
