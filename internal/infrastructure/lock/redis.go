package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/trolley-api/internal/application/allocation"
	"github.com/jhoicas/trolley-api/internal/domain"
	"github.com/jhoicas/trolley-api/pkg/config"
	"github.com/jhoicas/trolley-api/pkg/logger"
)

var _ allocation.DrawerLocker = (*RedisLocker)(nil)

const (
	keyPrefix    = "lock:drawer:"
	retryBackoff = 50 * time.Millisecond
)

// RedisLocker bloqueo distribuido por cajón sobre Redis (bsm/redislock), para varias instancias del API.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisClient crea el cliente Redis y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// NewRedisLocker construye el locker. ttl acota cuánto puede retenerse un cajón si el proceso muere.
func NewRedisLocker(rdb redislock.RedisClient, ttl time.Duration, log *logger.Logger) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), ttl: ttl, log: log}
}

// Lock reintenta hasta obtener el cajón o hasta que venza ctx (o el ttl si ctx no tiene deadline).
func (l *RedisLocker) Lock(ctx context.Context, drawerID string) (func(), error) {
	key := keyPrefix + drawerID
	lk, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(retryBackoff),
	})
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("%w: %s", domain.ErrLockNotObtained, drawerID)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener lock redis: %w", err)
	}
	return func() {
		// contexto propio: la liberación debe ocurrir aunque el request ya se haya cancelado
		if err := lk.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("drawer_id", drawerID).Msg("no se pudo liberar lock de cajón")
		}
	}, nil
}
