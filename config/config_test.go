package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Revision != "latest" {
		t.Errorf("Expected default revision latest, got %q", cfg.Revision)
	}
	if cfg.S3Region != "us-east-1" {
		t.Errorf("Expected default region, got %q", cfg.S3Region)
	}
	if cfg.ServerAddr != ":5433" {
		t.Errorf("Expected default server address, got %q", cfg.ServerAddr)
	}
	if cfg.AuthEnabled {
		t.Error("Auth should default to disabled")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SNAPQUERY_REVISION", "rev-42")
	t.Setenv("SNAPQUERY_SNAPSHOT_URL", "https://example.com/snapshots/%s.duckdb")
	t.Setenv("SNAPQUERY_AUTH_ENABLED", "true")
	t.Setenv("SNAPQUERY_SCRATCH_DIR", "/tmp/snapquery")

	cfg := Load()
	if cfg.Revision != "rev-42" {
		t.Errorf("Expected revision override, got %q", cfg.Revision)
	}
	if cfg.SnapshotURL != "https://example.com/snapshots/%s.duckdb" {
		t.Errorf("Expected snapshot URL override, got %q", cfg.SnapshotURL)
	}
	if !cfg.AuthEnabled {
		t.Error("Expected auth enabled")
	}
	if cfg.ScratchDir != "/tmp/snapquery" {
		t.Errorf("Expected scratch dir override, got %q", cfg.ScratchDir)
	}
}

func TestBoolEnvInvalid(t *testing.T) {
	t.Setenv("SNAPQUERY_AUTH_ENABLED", "not-a-bool")
	if Load().AuthEnabled {
		t.Error("Unparseable boolean should fall back to the default")
	}
}
