package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
endpoint_url = "https://ingest.example.com/v2/track"
spool_dir = "/var/lib/app/telemetry"
send_interval = "30s"
max_requests = 4
compress = false
log_payloads = true
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, nil); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}

	if cfg.EndpointURL != "https://ingest.example.com/v2/track" {
		t.Errorf("EndpointURL = %q", cfg.EndpointURL)
	}
	if cfg.SpoolDir != "/var/lib/app/telemetry" {
		t.Errorf("SpoolDir = %q", cfg.SpoolDir)
	}
	if cfg.SendInterval != 30*time.Second {
		t.Errorf("SendInterval = %v, want 30s", cfg.SendInterval)
	}
	if cfg.MaxRequests != 4 {
		t.Errorf("MaxRequests = %d, want 4", cfg.MaxRequests)
	}
	if cfg.Compress {
		t.Error("Compress = true, want false from file")
	}
	if !cfg.LogPayloads {
		t.Error("LogPayloads = false, want true from file")
	}
}

func TestApplyFileConfigRespectsChangedFlags(t *testing.T) {
	fc := FileConfig{
		EndpointURL:  "https://from-file.example.com",
		SendInterval: "1m",
	}

	cfg := DefaultConfig()
	cfg.EndpointURL = "https://from-flag.example.com"
	changed := map[string]bool{"endpoint": true}

	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatal(err)
	}

	if cfg.EndpointURL != "https://from-flag.example.com" {
		t.Errorf("EndpointURL = %q, want flag value preserved", cfg.EndpointURL)
	}
	if cfg.SendInterval != time.Minute {
		t.Errorf("SendInterval = %v, want 1m from file", cfg.SendInterval)
	}
}

func TestApplyFileConfigBadDuration(t *testing.T) {
	fc := FileConfig{SendInterval: "soon"}
	cfg := DefaultConfig()

	if err := ApplyFileConfig(&cfg, fc, nil); err == nil {
		t.Error("ApplyFileConfig() = nil, want error for bad duration")
	}
}

func TestLoadFileConfigMissingFile(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("LoadFileConfig() = nil, want error for missing file")
	}
}
