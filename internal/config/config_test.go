package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DATA_DIR", "")
	t.Setenv("SCHEDULES_PATH", "")
	t.Setenv("STORAGE_BACKEND", "")
	cfg := Load()
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.SchedulesPath != "data/schedules.json" {
		t.Fatalf("expected default schedules path, got %s", cfg.SchedulesPath)
	}
	if cfg.PatientsPath != "data/patients.csv" {
		t.Fatalf("expected default patients path, got %s", cfg.PatientsPath)
	}
	if cfg.LockTimeout != 10*time.Second {
		t.Fatalf("expected default lock timeout, got %s", cfg.LockTimeout)
	}
	if cfg.StorageBackend != "file" {
		t.Fatalf("expected file backend by default, got %s", cfg.StorageBackend)
	}
	if cfg.DayStartHour != 9 || cfg.DayEndHour != 17 {
		t.Fatalf("expected default clinic hours, got %d-%d", cfg.DayStartHour, cfg.DayEndHour)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATA_DIR", "/var/lib/scheduling")
	t.Setenv("SCHEDULES_PATH", "/var/lib/scheduling/sched.json")
	t.Setenv("LOCK_TIMEOUT", "2s")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("WORKER_CONCURRENCY", "8")
	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.SchedulesPath != "/var/lib/scheduling/sched.json" {
		t.Fatalf("expected schedules path override, got %s", cfg.SchedulesPath)
	}
	if cfg.PatientsPath != "/var/lib/scheduling/patients.csv" {
		t.Fatalf("expected patients path to follow data dir, got %s", cfg.PatientsPath)
	}
	if cfg.LockTimeout != 2*time.Second {
		t.Fatalf("expected lock timeout override, got %s", cfg.LockTimeout)
	}
	if cfg.StorageBackend != "redis" {
		t.Fatalf("expected normalized backend, got %s", cfg.StorageBackend)
	}
	if cfg.WorkerConcurrency != 8 {
		t.Fatalf("expected worker concurrency override, got %d", cfg.WorkerConcurrency)
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "not-a-zone"}
	if cfg.Location() != time.Local {
		t.Fatalf("expected fallback to local for bad zone")
	}
	cfg = &Config{Timezone: "UTC"}
	if cfg.Location().String() != "UTC" {
		t.Fatalf("expected UTC, got %s", cfg.Location())
	}
}
