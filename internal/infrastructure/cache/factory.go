package cache

import (
	"go.uber.org/zap"

	"github.com/medledger/backend/internal/domain/shared"
	"github.com/medledger/backend/internal/infrastructure/config"
)

// NewIdempotencyStore builds the idempotency store the configuration
// asks for. Redis when enabled, otherwise an in-process store. A failed
// Redis connection falls back to in-memory with a warning rather than
// refusing to start; duplicate suppression then only covers a single
// instance.
func NewIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger) shared.IdempotencyStore {
	if !cfg.Enabled {
		return NewInMemoryIdempotencyStore()
	}

	store, err := NewRedisIdempotencyStore(RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port),
			zap.Error(err),
		)
		return NewInMemoryIdempotencyStore()
	}

	logger.Info("Using Redis idempotency store",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)
	return store
}
