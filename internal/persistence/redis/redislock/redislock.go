package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var ErrNotAcquired = errors.New("lock: not acquired")

type Manager struct {
	client *redis.Client
	logger *zerolog.Logger
}

func NewManager(client *redis.Client, logger *zerolog.Logger) *Manager {
	return &Manager{
		client: client,
		logger: logger,
	}
}

// Guard runs op while holding the lock stored under key.
// The lock key is watched, so a transaction started by op fails if the lock expires midway.
func (m *Manager) Guard(ctx context.Context, key string, ttl time.Duration, op func(tx *redis.Tx) error) error {
	token := uuid.NewString()

	acquired, err := m.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return fmt.Errorf("guard: take lock ownership: %w", err)
	}
	if !acquired {
		return ErrNotAcquired
	}
	defer m.release(context.WithoutCancel(ctx), key, token)

	err = m.client.Watch(ctx, func(tx *redis.Tx) error {
		// the lock may have expired between SETNX and WATCH
		if ownErr := checkOwnership(ctx, tx, key, token); ownErr != nil {
			return ownErr
		}
		return op(tx)
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr), errors.Is(err, ErrNotAcquired):
		return ErrNotAcquired
	default:
		return fmt.Errorf("guard: %w", err)
	}
}

func (m *Manager) release(ctx context.Context, key, token string) {
	err := m.client.Watch(ctx, func(tx *redis.Tx) error {
		if ownErr := checkOwnership(ctx, tx, key, token); ownErr != nil {
			return ownErr
		}
		_, txErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return txErr
	}, key)

	switch {
	case err == nil:
		return
	case errors.Is(err, redis.TxFailedErr), errors.Is(err, ErrNotAcquired):
		m.logger.Warn().Str("key", key).Msg("Lock expired before it was released")
	default:
		m.logger.Error().Err(err).Str("key", key).Msg("Failed to release lock")
	}
}

func checkOwnership(ctx context.Context, tx *redis.Tx, key, token string) error {
	owner, err := tx.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotAcquired
		}
		return fmt.Errorf("check lock ownership: %w", err)
	}
	if owner != token {
		return ErrNotAcquired
	}
	return nil
}
