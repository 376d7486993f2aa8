package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/domain/performance"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory builds the Redis-backed stores, falling back to in-memory
// implementations when Redis is disabled or unreachable.
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	client                *redis.Client
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Connect opens and pings the Redis client. It is a no-op when Redis is disabled.
func (f *Factory) Connect(ctx context.Context) error {
	if !f.redisConfig.Enabled {
		if !f.allowInMemoryFallback {
			return fmt.Errorf("redis is disabled but in-memory fallback is not allowed")
		}
		f.logger.Warn("Redis disabled, using in-memory presence, KPI cache and submission locks. " +
			"Locks and presence are not shared across instances.")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		if !f.allowInMemoryFallback {
			return fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory stores", zap.Error(err))
		return nil
	}

	f.logger.Info("Connected to Redis", zap.String("addr", f.redisConfig.Addr()))
	f.client = client
	return nil
}

// Client returns the Redis client, or nil when running in-memory
func (f *Factory) Client() *redis.Client {
	return f.client
}

// Close closes the Redis client if one is open
func (f *Factory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}

// PresenceStore returns the heartbeat store
func (f *Factory) PresenceStore() identity.PresenceStore {
	if f.client == nil {
		return NewInMemoryPresenceStore()
	}
	return NewRedisPresenceStore(f.client, "")
}

// KPICache returns the KPI cache with the given entry TTL
func (f *Factory) KPICache(ttl time.Duration) performance.KPICache {
	if f.client == nil {
		return NewInMemoryKPICache(ttl)
	}
	return NewRedisKPICache(f.client, "", ttl)
}

// Locker returns the settlement submission locker
func (f *Factory) Locker(ttl time.Duration, retries int) shared.Locker {
	if f.client == nil {
		return NewInMemoryLocker()
	}
	return NewRedisLocker(redislock.New(f.client), ttl, retries)
}
