package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
debug: true
server:
  host: "0.0.0.0"
  port: 8060
database:
  host: "localhost"
  port: 5432
  user: "testuser"
  password: "testpass"
  dbname: "testdb"
providers:
  ssllabs:
    max_attempts: 5
    poll_interval: 2s
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if !cfg.Debug {
		t.Error("Load() cfg.Debug = false, want true")
	}

	if cfg.Server.Port != 8060 {
		t.Errorf("Load() cfg.Server.Port = %v, want 8060", cfg.Server.Port)
	}

	if cfg.Providers.SSLLabs.MaxAttempts != 5 {
		t.Errorf("Load() cfg.Providers.SSLLabs.MaxAttempts = %v, want 5", cfg.Providers.SSLLabs.MaxAttempts)
	}

	if cfg.Providers.SSLLabs.PollInterval != 2*time.Second {
		t.Errorf("Load() cfg.Providers.SSLLabs.PollInterval = %v, want 2s", cfg.Providers.SSLLabs.PollInterval)
	}
}

func TestLoad_Defaults(t *testing.T) {
	configPath := writeConfig(t, `
server:
  host: "127.0.0.1"
database:
  host: "localhost"
  user: "testuser"
  dbname: "testdb"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Server.Port != defaultServerPort {
		t.Errorf("default server port = %v, want %v", cfg.Server.Port, defaultServerPort)
	}

	if cfg.Database.Port != defaultDatabasePort {
		t.Errorf("default database port = %v, want %v", cfg.Database.Port, defaultDatabasePort)
	}

	if cfg.Providers.PageSpeed.BaseURL != defaultPageSpeedBaseURL {
		t.Errorf("default pagespeed base URL = %v, want %v", cfg.Providers.PageSpeed.BaseURL, defaultPageSpeedBaseURL)
	}

	if cfg.Providers.SSLLabs.MaxAttempts != defaultDeepScanAttempts {
		t.Errorf("default max attempts = %v, want %v", cfg.Providers.SSLLabs.MaxAttempts, defaultDeepScanAttempts)
	}

	if cfg.Providers.Timeout != defaultProviderTimeout {
		t.Errorf("default provider timeout = %v, want %v", cfg.Providers.Timeout, defaultProviderTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	configPath := writeConfig(t, `
server:
  host: "127.0.0.1"
database:
  host: "localhost"
  user: "testuser"
  dbname: "testdb"
`)

	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SSLLABS_BASE_URL", "http://localhost:9999/api/v3")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("env override server port = %v, want 9000", cfg.Server.Port)
	}

	if cfg.Providers.SSLLabs.BaseURL != "http://localhost:9999/api/v3" {
		t.Errorf("env override ssllabs base URL = %v", cfg.Providers.SSLLabs.BaseURL)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	configPath := writeConfig(t, `
server:
  host: "127.0.0.1"
database:
  host: "localhost"
`)

	if _, err := Load(configPath); err == nil {
		t.Error("Load() with missing database.user should fail validation")
	}
}
