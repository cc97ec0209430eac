package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var secretEnvVars = []string{
	"CLIENTDESK_BACKEND_TOKEN", "CLIENTDESK_AUTH_PASSWORD",
}

func clearSecretEnv(t *testing.T) {
	t.Helper()
	for _, e := range secretEnvVars {
		t.Setenv(e, "")
	}
}

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	clearSecretEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Backend defaults
	if cfg.Backend.BaseURL != "http://localhost:5000" {
		t.Errorf("Backend.BaseURL: got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutSec != 0 {
		t.Errorf("Backend.TimeoutSec: got %d, want 0", cfg.Backend.TimeoutSec)
	}
	if cfg.Backend.Timeout() != 0 {
		t.Errorf("Backend.Timeout(): got %v, want 0", cfg.Backend.Timeout())
	}
	if cfg.Backend.RateLimit != 20 {
		t.Errorf("Backend.RateLimit: got %d, want 20", cfg.Backend.RateLimit)
	}

	// Server defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host: got %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "0.0.0.0:3000" {
		t.Errorf("Server.Addr(): got %q", cfg.Server.Addr())
	}

	// Login defaults
	if cfg.Auth.Username != "admin" || cfg.Auth.Password != "admin" {
		t.Errorf("Auth: got %q/%q", cfg.Auth.Username, cfg.Auth.Password)
	}

	if cfg.Portfolio.DegradeOnError {
		t.Error("Portfolio.DegradeOnError should be false by default")
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}
}

func TestDefaultMatchesLoad(t *testing.T) {
	d := Default()
	if d.Backend.BaseURL != "http://localhost:5000" || d.Server.Port != 3000 {
		t.Errorf("Default(): got %+v", d)
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	clearSecretEnv(t)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "test_config.yaml")
	content := []byte(`
backend:
  base_url: "http://advisory.internal:8000"
  timeout_sec: 15
  rate_limit: 5
  token: "tok_abcdefghijkl"
server:
  port: 9090
portfolio:
  degrade_on_error: true
logging:
  level: "debug"
  format: "json"
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Backend.BaseURL != "http://advisory.internal:8000" {
		t.Errorf("Backend.BaseURL: got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout() != 15*time.Second {
		t.Errorf("Backend.Timeout(): got %v", cfg.Backend.Timeout())
	}
	if cfg.Backend.RateLimit != 5 {
		t.Errorf("Backend.RateLimit: got %d, want 5", cfg.Backend.RateLimit)
	}
	if cfg.Backend.Token != "tok_abcdefghijkl" {
		t.Errorf("Backend.Token: got %q", cfg.Backend.Token)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port: got %d, want 9090", cfg.Server.Port)
	}
	// Unspecified keys keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host: got %q", cfg.Server.Host)
	}
	if !cfg.Portfolio.DegradeOnError {
		t.Error("Portfolio.DegradeOnError should be true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

func TestLoadFromFileEnvOverride(t *testing.T) {
	clearSecretEnv(t)
	t.Setenv("CLIENTDESK_BACKEND_BASE_URL", "http://from-env:1234")

	cfgPath := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(cfgPath, []byte("backend:\n  base_url: \"http://from-file\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend.BaseURL != "http://from-env:1234" {
		t.Errorf("env should win over file, got %q", cfg.Backend.BaseURL)
	}
}

// ── SaveToFile ──

func TestSaveToFileRoundTrip(t *testing.T) {
	clearSecretEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Backend.BaseURL = "http://saved:5000"
	cfg.Server.Port = 4000

	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile() error: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if loaded.Backend.BaseURL != "http://saved:5000" {
		t.Errorf("Backend.BaseURL: got %q", loaded.Backend.BaseURL)
	}
	if loaded.Server.Port != 4000 {
		t.Errorf("Server.Port: got %d", loaded.Server.Port)
	}
}

// ── overrideFromEnv ──

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("CLIENTDESK_BACKEND_TOKEN", "env-token-123456")
	t.Setenv("CLIENTDESK_AUTH_PASSWORD", "s3cret")

	cfg := &Config{}
	overrideFromEnv(cfg)

	if cfg.Backend.Token != "env-token-123456" {
		t.Errorf("Backend.Token: got %q", cfg.Backend.Token)
	}
	if cfg.Auth.Password != "s3cret" {
		t.Errorf("Auth.Password: got %q", cfg.Auth.Password)
	}
}

func TestOverrideFromEnvNoEnvSet(t *testing.T) {
	clearSecretEnv(t)

	cfg := &Config{Backend: BackendConfig{Token: "from-config"}}
	overrideFromEnv(cfg)

	if cfg.Backend.Token != "from-config" {
		t.Errorf("Token should stay as 'from-config' when env is unset, got %q", cfg.Backend.Token)
	}
}

// ── maskSecret / CheckSecrets ──

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "***"},
		{"admin", "***"},
		{"12345678", "***"},
		{"123456789", "123...789"},
		{"tok_abcdefghijkl", "tok...jkl"},
	}
	for _, tc := range tests {
		if got := maskSecret(tc.input); got != tc.want {
			t.Errorf("maskSecret(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestCheckSecrets(t *testing.T) {
	clearSecretEnv(t)

	cfg := &Config{Backend: BackendConfig{Token: "tok_abcdefghijkl"}}
	statuses := CheckSecrets(cfg)
	if len(statuses) != 2 {
		t.Fatalf("CheckSecrets: got %d statuses, want 2", len(statuses))
	}

	token := statuses[0]
	if !token.IsSet || token.Source != SourceConfig || token.Masked != "tok...jkl" {
		t.Errorf("token status: %+v", token)
	}
	pw := statuses[1]
	if pw.IsSet || pw.Source != SourceNone {
		t.Errorf("password status: %+v", pw)
	}
}

func TestCheckSecretFromEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "env-value-long-enough")
	s := checkSecret("Test", "env-value-long-enough", "TEST_VAR")
	if s.Source != SourceEnv {
		t.Errorf("env value: got source %q, want %q", s.Source, SourceEnv)
	}
}

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	if homeDir() == "" {
		t.Error("homeDir() should not return empty string")
	}
}
