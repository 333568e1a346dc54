package config

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("TELEMSHIP_ENDPOINT_URL", "https://from-env.example.com")
	t.Setenv("TELEMSHIP_SPOOL_DIR", "/tmp/telemetry")
	t.Setenv("TELEMSHIP_SEND_INTERVAL", "45s")
	t.Setenv("TELEMSHIP_MAX_REQUESTS", "7")
	t.Setenv("TELEMSHIP_COMPRESS", "false")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, nil); err != nil {
		t.Fatalf("ApplyEnvConfig() error = %v", err)
	}

	if cfg.EndpointURL != "https://from-env.example.com" {
		t.Errorf("EndpointURL = %q", cfg.EndpointURL)
	}
	if cfg.SpoolDir != "/tmp/telemetry" {
		t.Errorf("SpoolDir = %q", cfg.SpoolDir)
	}
	if cfg.SendInterval != 45*time.Second {
		t.Errorf("SendInterval = %v, want 45s", cfg.SendInterval)
	}
	if cfg.MaxRequests != 7 {
		t.Errorf("MaxRequests = %d, want 7", cfg.MaxRequests)
	}
	if cfg.Compress {
		t.Error("Compress = true, want false from env")
	}
}

func TestApplyEnvConfigRespectsChangedFlags(t *testing.T) {
	t.Setenv("TELEMSHIP_MAX_REQUESTS", "3")

	cfg := DefaultConfig()
	cfg.MaxRequests = 20
	changed := map[string]bool{"max-requests": true}

	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatal(err)
	}
	if cfg.MaxRequests != 20 {
		t.Errorf("MaxRequests = %d, want flag value preserved", cfg.MaxRequests)
	}
}

func TestApplyEnvConfigBadValues(t *testing.T) {
	t.Setenv("TELEMSHIP_MAX_REQUESTS", "many")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, nil); err == nil {
		t.Error("ApplyEnvConfig() = nil, want error for bad integer")
	}
}
