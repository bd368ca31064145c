package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseJSONConfigSuccess(t *testing.T) {
	path := writeTempConfig(t, `{"address":"0.0.0.0","port":5000,"maxConnections":42,"logFilename":"out.log","reportPeriodSeconds":5}`)

	cfg := defaultConfig()
	if err := parseJSONConfig(&cfg, path); err != nil {
		t.Fatalf("parseJSONConfig returned error: %v", err)
	}

	if cfg.Address != "0.0.0.0" || cfg.Port != 5000 {
		t.Fatalf("unexpected address/port: %+v", cfg)
	}
	if cfg.MaxConnections != 42 || cfg.LogFilename != "out.log" || cfg.ReportPeriod != 5 {
		t.Fatalf("unexpected remaining fields: %+v", cfg)
	}
}

func TestParseJSONConfigMissingFile(t *testing.T) {
	cfg := defaultConfig()
	missing := filepath.Join(t.TempDir(), "missing.json")
	if err := parseJSONConfig(&cfg, missing); err == nil {
		t.Fatalf("parseJSONConfig expected error for missing file")
	}
}

func TestParseJSONConfigPartialOverride(t *testing.T) {
	path := writeTempConfig(t, `{"port":6000}`)

	cfg := defaultConfig()
	if err := parseJSONConfig(&cfg, path); err != nil {
		t.Fatalf("parseJSONConfig returned error: %v", err)
	}

	if cfg.Port != 6000 {
		t.Fatalf("expected port override to apply, got %d", cfg.Port)
	}
	if cfg.Address != defaultAddress {
		t.Fatalf("expected address to keep its default, got %q", cfg.Address)
	}
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}
