package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"github.com/sergeii/crypto1recover/internal/core/entities/job"
	"github.com/sergeii/crypto1recover/internal/core/repositories"
	"github.com/sergeii/crypto1recover/internal/persistence/redis/redislock"
	"github.com/sergeii/crypto1recover/pkg/redisutils"
)

const (
	itemsKey    = "jobs:items"
	queueKey    = "jobs:queue"
	finishedKey = "jobs:finished"
	cleanupKey  = "jobs:cleanup:lock"
)

// maxTxAttempts bounds retries of transactions watching the items hash,
// which is touched by every write to any job.
const maxTxAttempts = 10

var ErrTxContention = errors.New("job items kept changing during transaction")

type Repository struct {
	client     *redis.Client
	clock      clockwork.Clock
	locks      *redislock.Manager
	cleanupTTL time.Duration
}

type Option func(*Repository)

// WithCleanupLock makes RemoveFinishedBefore run under a lock shared by every process using the same redis.
// A removal attempted while the lock is held elsewhere removes nothing.
func WithCleanupLock(locks *redislock.Manager, ttl time.Duration) Option {
	return func(r *Repository) {
		r.locks = locks
		r.cleanupTTL = ttl
	}
}

func New(client *redis.Client, c clockwork.Clock, opts ...Option) *Repository {
	repo := &Repository{
		client: client,
		clock:  c,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

func (r *Repository) Add(ctx context.Context, j job.Job) error {
	item, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, itemsKey, j.ID, item)
		pipe.ZAdd(ctx, queueKey, redis.Z{
			Score:  redisutils.TimeScore(r.readyAt(j)),
			Member: j.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}

	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (job.Job, error) {
	value, err := r.client.HGet(ctx, itemsKey, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return job.Blank, repositories.ErrJobNotFound
		}
		return job.Blank, fmt.Errorf("failed to get job: %w", err)
	}
	return decodeJob(value)
}

// Update overwrites a stored job. A job removed in the meantime is not brought back.
func (r *Repository) Update(ctx context.Context, j job.Job) error {
	item, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	return r.watchItems(ctx, func(tx *redis.Tx) error {
		exists, checkErr := tx.HExists(ctx, itemsKey, j.ID).Result()
		if checkErr != nil {
			return fmt.Errorf("failed to check job: %w", checkErr)
		}
		if !exists {
			return repositories.ErrJobNotFound
		}

		_, txErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, itemsKey, j.ID, item)
			// finished jobs are tracked for retention
			if j.IsFinished() {
				pipe.ZAdd(ctx, finishedKey, redis.Z{
					Score:  redisutils.TimeScore(j.FinishedAt),
					Member: j.ID,
				})
			}
			return nil
		})
		if txErr != nil {
			return fmt.Errorf("failed to update job: %w", txErr)
		}
		return nil
	})
}

// Requeue puts a popped job back in the queue at its original position.
// Only jobs that are still pending in storage are accepted.
func (r *Repository) Requeue(ctx context.Context, j job.Job) error {
	return r.watchItems(ctx, func(tx *redis.Tx) error {
		value, getErr := tx.HGet(ctx, itemsKey, j.ID).Result()
		if getErr != nil {
			if errors.Is(getErr, redis.Nil) {
				return repositories.ErrJobNotFound
			}
			return fmt.Errorf("failed to get job: %w", getErr)
		}
		stored, decodeErr := decodeJob(value)
		if decodeErr != nil {
			return decodeErr
		}
		if stored.Status != job.Pending {
			return repositories.ErrJobNotPending
		}

		_, txErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.ZAdd(ctx, queueKey, redis.Z{
				Score:  redisutils.TimeScore(r.readyAt(stored)),
				Member: stored.ID,
			})
			return nil
		})
		if txErr != nil {
			return fmt.Errorf("failed to requeue job: %w", txErr)
		}
		return nil
	})
}

func (r *Repository) PopMany(ctx context.Context, count int) ([]job.Job, error) {
	if count <= 0 {
		return nil, nil
	}

	keys, err := r.client.ZRangeArgs(
		ctx,
		redis.ZRangeArgs{
			Key:     queueKey,
			ByScore: true,
			Start:   "-inf",
			Stop:    redisutils.UpTo(r.clock.Now()),
			Count:   int64(count),
		},
	).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	if len(keys) == 0 {
		return nil, nil
	}

	// a job belongs to whichever consumer managed to remove it from the queue
	removals := make([]*redis.IntCmd, len(keys))
	var result *redis.SliceCmd
	if _, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range keys {
			removals[i] = pipe.ZRem(ctx, queueKey, key)
		}
		result = pipe.HMGet(ctx, itemsKey, keys...)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to pop jobs: %w", err)
	}

	values := result.Val()
	popped := make([]job.Job, 0, len(keys))
	for i, removal := range removals {
		if removal.Val() == 0 || values[i] == nil {
			continue
		}
		j, decodeErr := decodeJob(values[i])
		if decodeErr != nil {
			return nil, decodeErr
		}
		popped = append(popped, j)
	}

	return popped, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	count, err := r.client.HLen(ctx, itemsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return int(count), nil
}

func (r *Repository) CountPending(ctx context.Context) (int, error) {
	count, err := r.client.ZCard(ctx, queueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count pending jobs: %w", err)
	}
	return int(count), nil
}

func (r *Repository) RemoveFinishedBefore(ctx context.Context, until time.Time) (int, error) {
	if r.locks == nil {
		return removeFinished(ctx, r.client, until)
	}

	var removed int
	err := r.locks.Guard(ctx, cleanupKey, r.cleanupTTL, func(tx *redis.Tx) error {
		var removeErr error
		removed, removeErr = removeFinished(ctx, tx, until)
		return removeErr
	})
	if err != nil {
		if errors.Is(err, redislock.ErrNotAcquired) {
			return 0, nil
		}
		return 0, err
	}

	return removed, nil
}

func removeFinished(ctx context.Context, c redis.Cmdable, until time.Time) (int, error) {
	keys, err := c.ZRangeArgs(
		ctx,
		redis.ZRangeArgs{
			Key:     finishedKey,
			ByScore: true,
			Start:   "-inf",
			Stop:    redisutils.Before(until),
		},
	).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch finished jobs: %w", err)
	}

	if len(keys) == 0 {
		return 0, nil
	}

	if _, err = c.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		members := redisutils.KeysToMembers(keys)
		pipe.HDel(ctx, itemsKey, keys...)
		pipe.ZRem(ctx, finishedKey, members...)
		// finished jobs are normally off the queue already
		pipe.ZRem(ctx, queueKey, members...)
		return nil
	}); err != nil {
		return 0, fmt.Errorf("failed to remove finished jobs: %w", err)
	}

	return len(keys), nil
}

func (r *Repository) watchItems(ctx context.Context, fn func(*redis.Tx) error) error {
	for range maxTxAttempts {
		err := r.client.Watch(ctx, fn, itemsKey)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return ErrTxContention
}

// readyAt is the queue score of a job. Unless specified, a job is ready to be processed immediately.
func (r *Repository) readyAt(j job.Job) time.Time {
	if j.CreatedAt.IsZero() {
		return r.clock.Now()
	}
	return j.CreatedAt
}

func decodeJob(val any) (job.Job, error) {
	encoded, ok := val.(string)
	if !ok {
		return job.Blank, fmt.Errorf("unexpected type %T, %v", val, val)
	}
	var j job.Job
	if err := json.Unmarshal([]byte(encoded), &j); err != nil {
		return job.Blank, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return j, nil
}
