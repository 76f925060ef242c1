package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/incident-center/internal/config"
)

const redisPingTimeout = 2 * time.Second

// Redis holds the client behind the attachment blob store.
type Redis struct {
	Client *redis.Client
}

// NewRedis builds the blob store client. An unreachable server is logged, not fatal;
// readiness reports it until it comes up.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	r := &Redis{Client: redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})}

	if err := r.Ping(ctx); err != nil {
		logger.Warn("blob store redis unreachable", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("blob store using redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	}
	return r
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping checks the server, giving up after redisPingTimeout.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	return r.Client.Ping(ctx).Err()
}
