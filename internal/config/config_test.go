package config

import (
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DICT_PATH", "USER_ID", "STORE_BACKEND", "STORE_DIR",
		"REDIS_URL", "DATABASE_URL", "PHONETIC_FALLBACK",
		"RANDOM_SEED", "POINTS_PER_CHAIN", "MSG_OVERRIDE_DIR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreBackend != BackendJSON || cfg.StoreDir != "data" {
		t.Fatalf("store defaults: %+v", cfg)
	}
	if !cfg.PhoneticFallback || cfg.PointsPerChain != 2 {
		t.Fatalf("game defaults: %+v", cfg)
	}
	if cfg.SeedFixed {
		t.Fatal("seed should not be fixed by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PHONETIC_FALLBACK", "false")
	t.Setenv("RANDOM_SEED", "42")
	t.Setenv("POINTS_PER_CHAIN", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreBackend != BackendRedis {
		t.Fatalf("backend not normalized: %q", cfg.StoreBackend)
	}
	if cfg.PhoneticFallback {
		t.Fatal("fallback override ignored")
	}
	if !cfg.SeedFixed || cfg.RandomSeed != 42 {
		t.Fatalf("seed: %+v", cfg)
	}
	if cfg.PointsPerChain != 5 {
		t.Fatalf("points: %d", cfg.PointsPerChain)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "cassandra")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "STORE_BACKEND") {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestLoadRequiresBackendURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "redis")
	if _, err := Load(); err == nil {
		t.Fatal("expected missing REDIS_URL error")
	}

	clearEnv(t)
	t.Setenv("STORE_BACKEND", "postgres")
	if _, err := Load(); err == nil {
		t.Fatal("expected missing DATABASE_URL error")
	}
}
