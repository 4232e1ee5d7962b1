package redislock_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergeii/crypto1recover/internal/persistence/redis/redislock"
	"github.com/sergeii/crypto1recover/internal/testutils/testredis"
)

func TestManager_Guard_OK(t *testing.T) {
	ctx := t.Context()
	rdb := testredis.MakeClient(t)
	logger := zerolog.Nop()
	m := redislock.NewManager(rdb, &logger)

	err := m.Guard(ctx, "jobs:lock", time.Minute, func(tx *redis.Tx) error {
		_, txErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, "jobs:items", "foo", "bar")
			return nil
		})
		return txErr
	})
	require.NoError(t, err)

	assert.Equal(t, "bar", rdb.HGet(ctx, "jobs:items", "foo").Val())
	// the lock is released
	assert.ErrorIs(t, rdb.Get(ctx, "jobs:lock").Err(), redis.Nil)
}

func TestManager_Guard_OpError(t *testing.T) {
	ctx := t.Context()
	rdb := testredis.MakeClient(t)
	logger := zerolog.Nop()
	m := redislock.NewManager(rdb, &logger)

	err := m.Guard(ctx, "jobs:lock", time.Minute, func(*redis.Tx) error {
		return redis.Nil
	})
	assert.ErrorIs(t, err, redis.Nil)
	assert.ErrorIs(t, rdb.Get(ctx, "jobs:lock").Err(), redis.Nil)
}

func TestManager_Guard_HeldElsewhere(t *testing.T) {
	ctx := t.Context()
	rdb, mr := testredis.MakeServer(t)
	logger := zerolog.Nop()
	m := redislock.NewManager(rdb, &logger)

	require.NoError(t, mr.Set("jobs:lock", "someone-else"))

	called := false
	err := m.Guard(ctx, "jobs:lock", time.Minute, func(*redis.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, redislock.ErrNotAcquired)
	assert.False(t, called)

	// the foreign lock is left intact
	owner, err := mr.Get("jobs:lock")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", owner)
}

func TestManager_Guard_Concurrent(t *testing.T) {
	ctx := t.Context()
	rdb := testredis.MakeClient(t)
	logger := zerolog.Nop()
	m := redislock.NewManager(rdb, &logger)

	var executed, rejected atomic.Int32
	start := make(chan struct{})
	wg := &sync.WaitGroup{}
	for range 10 {
		wg.Go(func() {
			<-start
			err := m.Guard(ctx, "jobs:lock", time.Minute, func(tx *redis.Tx) error {
				executed.Add(1)
				time.Sleep(time.Millisecond * 50)
				return nil
			})
			if err != nil {
				assert.ErrorIs(t, err, redislock.ErrNotAcquired)
				rejected.Add(1)
			}
		})
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(10), executed.Load()+rejected.Load())
	assert.GreaterOrEqual(t, executed.Load(), int32(1))
	assert.GreaterOrEqual(t, rejected.Load(), int32(1))
}

func TestManager_Guard_Expired(t *testing.T) {
	ctx := t.Context()
	rdb, mr := testredis.MakeServer(t)
	logger := zerolog.Nop()
	m := redislock.NewManager(rdb, &logger)

	err := m.Guard(ctx, "jobs:lock", time.Millisecond*50, func(tx *redis.Tx) error {
		_, txErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, "jobs:items", "foo", "bar")
			mr.FastForward(time.Millisecond * 100)
			return nil
		})
		return txErr
	})
	assert.ErrorIs(t, err, redislock.ErrNotAcquired)

	// the transaction is discarded
	assert.False(t, mr.Exists("jobs:items"))
}
