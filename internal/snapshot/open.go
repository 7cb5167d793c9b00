package snapshot

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/market-copilot/internal/config"
)

// Open builds a Store on the backend selected by cfg.Store.Backend.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(backend, logger), nil
}

func openBackend(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis, "":
		return NewRedisBackend(cfg.Redis)
	case config.BackendPostgres:
		return ConnectPostgres(ctx, cfg.Store.DatabaseURL)
	case config.BackendSQLite:
		return OpenSQLite(cfg.Store.SQLitePath)
	case config.BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}
