package config

import "testing"

func TestNewFromEnvDefaults(t *testing.T) {
	cfg, err := NewFromEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Port)
	}
	if cfg.PeriodicBackupEnabled() {
		t.Fatal("periodic backup should default to off")
	}
	if got := cfg.PeriodicBackupIntervalMinutes(); got != 10 {
		t.Fatalf("interval = %d, want 10", got)
	}
	if cfg.SnapshotEnabled() {
		t.Fatal("snapshot should be disabled without a bucket")
	}
}

func TestNewFromEnvReadsValues(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_PROVIDER", "gcs")
	t.Setenv("SQLITE_BUCKET", "catalog-bucket")
	t.Setenv("PERIODIC_BACKUP", "on")
	t.Setenv("PERIODIC_BACKUP_MINUTE", "5")

	cfg, err := NewFromEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("port = %q, want 9090", cfg.Port)
	}
	if !cfg.SnapshotEnabled() {
		t.Fatal("snapshot should be enabled")
	}
	if !cfg.PeriodicBackupEnabled() {
		t.Fatal("periodic backup should be enabled")
	}
	if got := cfg.PeriodicBackupIntervalMinutes(); got != 5 {
		t.Fatalf("interval = %d, want 5", got)
	}
}
