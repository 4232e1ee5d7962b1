package testredis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sergeii/crypto1recover/internal/testutils"
)

// MakeServer starts an in-memory redis and a client connected to it.
// Tests that need to tamper with keys behind the client's back
// (expire a lock, plant a foreign token) use the returned server.
func MakeServer(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		testutils.MustNoErr(rdb.Close())
	})
	return rdb, mr
}

func MakeClient(t *testing.T) *redis.Client {
	t.Helper()
	rdb, _ := MakeServer(t)
	return rdb
}
