package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

const (
	BackendJSON     = "json"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type AppConfig struct {
	DictPath string

	StoreBackend string
	StoreDir     string

	RedisURL    string
	DatabaseURL string

	PhoneticFallback bool
	RandomSeed       int64
	SeedFixed        bool

	PointsPerChain int
	UserID         string

	MsgOverrideDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		StoreBackend:     BackendJSON,
		StoreDir:         "data",
		PhoneticFallback: true,
		PointsPerChain:   2,
	}

	cfg.DictPath = strings.TrimSpace(os.Getenv("DICT_PATH"))
	cfg.UserID = strings.TrimSpace(os.Getenv("USER_ID"))
	cfg.MsgOverrideDir = strings.TrimSpace(os.Getenv("MSG_OVERRIDE_DIR"))

	if v := strings.TrimSpace(os.Getenv("STORE_BACKEND")); v != "" {
		cfg.StoreBackend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("STORE_DIR")); v != "" {
		cfg.StoreDir = v
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if v := strings.TrimSpace(os.Getenv("PHONETIC_FALLBACK")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.PhoneticFallback = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("RANDOM_SEED")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.RandomSeed = n
			cfg.SeedFixed = true
		}
	}
	if v := strings.TrimSpace(os.Getenv("POINTS_PER_CHAIN")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PointsPerChain = n
		}
	}

	switch cfg.StoreBackend {
	case BackendJSON, BackendRedis, BackendPostgres:
	default:
		return nil, errors.New("STORE_BACKEND must be one of: json, redis, postgres")
	}
	if cfg.StoreBackend == BackendRedis && cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required when STORE_BACKEND=redis")
	}
	if cfg.StoreBackend == BackendPostgres && cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required when STORE_BACKEND=postgres")
	}

	return cfg, nil
}
