package store

import (
	"fmt"

	"github.com/moyansheep/chengyu-chain-bot/internal/config"
)

// Open builds the store selected by STORE_BACKEND. Config validation has
// already rejected unknown backends and missing connection URLs.
func Open(cfg *config.AppConfig) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendJSON:
		return NewJSONStore(cfg.StoreDir)
	case config.BackendRedis:
		return NewRedisStore(cfg.RedisURL)
	case config.BackendPostgres:
		return NewPGStore(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported store backend: %q", cfg.StoreBackend)
	}
}
