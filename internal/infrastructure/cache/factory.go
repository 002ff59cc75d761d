package cache

import (
	"context"
	"fmt"

	"github.com/wealthcrm/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// StoreFactory creates a Store based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the
// in-memory store. Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns a Redis store when Redis is enabled and reachable,
// and an in-memory store otherwise (unless fallback is disabled).
func (f *StoreFactory) CreateStore(ctx context.Context) (Store, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory advice cache")
		return NewInMemoryStore(), nil
	}

	store, err := NewRedisStore(ctx, RedisConfig{
		Addr:     f.redisConfig.RedisAddr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("Using Redis advice cache", zap.String("addr", f.redisConfig.RedisAddr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for advice cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory advice cache", zap.Error(err))
	return NewInMemoryStore(), nil
}
