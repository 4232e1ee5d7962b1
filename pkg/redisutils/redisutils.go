package redisutils

import (
	"strconv"
	"time"
)

func KeysToMembers(keys []string) []any {
	members := make([]any, len(keys))
	for i, v := range keys {
		members[i] = v
	}
	return members
}

// TimeScore encodes a point in time as a sorted set score.
func TimeScore(t time.Time) float64 {
	return float64(t.UnixNano())
}

// UpTo returns an inclusive ZRANGE BYSCORE bound for t.
func UpTo(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}

// Before returns an exclusive ZRANGE BYSCORE bound for t.
func Before(t time.Time) string {
	return "(" + UpTo(t)
}
