package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear any env vars from the host environment that would skew defaults
	for _, key := range []string{"PORT", "ENV", "DB_NAME", "REDIS_ENABLED", "DATASET_START_SEASON"} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8090" {
		t.Errorf("Port = %s, want 8090", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %s, want development", cfg.Env)
	}
	if cfg.Dataset.MinPA != 100 {
		t.Errorf("Dataset.MinPA = %d, want 100", cfg.Dataset.MinPA)
	}
	if !cfg.Redis.Enabled {
		t.Error("Redis.Enabled = false, want true by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	os.Setenv("PORT", "9999")
	os.Setenv("DATASET_MIN_PA", "250")
	os.Setenv("SOURCE_REQUESTS_PER_SEC", "0.5")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("DATASET_MIN_PA")
		os.Unsetenv("SOURCE_REQUESTS_PER_SEC")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9999" {
		t.Errorf("Port = %s, want 9999", cfg.Port)
	}
	if cfg.Dataset.MinPA != 250 {
		t.Errorf("Dataset.MinPA = %d, want 250", cfg.Dataset.MinPA)
	}
	if cfg.Sources.RequestsPerSec != 0.5 {
		t.Errorf("Sources.RequestsPerSec = %f, want 0.5", cfg.Sources.RequestsPerSec)
	}
}

func TestLoad_InvalidSeasonRange(t *testing.T) {
	os.Setenv("DATASET_START_SEASON", "2025")
	os.Setenv("DATASET_END_SEASON", "2021")
	defer func() {
		os.Unsetenv("DATASET_START_SEASON")
		os.Unsetenv("DATASET_END_SEASON")
	}()

	if _, err := Load(); err == nil {
		t.Error("Load() should fail when start season is after end season")
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host: "localhost", Port: "5432", Name: "comps", User: "comps", Password: "pw",
		},
	}

	want := "postgres://comps:pw@localhost:5432/comps?sslmode=disable"
	if got := cfg.DatabaseDSN(); got != want {
		t.Errorf("DatabaseDSN() = %s, want %s", got, want)
	}

	// DATABASE_URL takes precedence
	cfg.Database.URL = "postgres://other"
	if got := cfg.DatabaseDSN(); got != "postgres://other" {
		t.Errorf("DatabaseDSN() = %s, want postgres://other", got)
	}
}
