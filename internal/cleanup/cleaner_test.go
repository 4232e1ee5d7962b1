package cleanup_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sergeii/crypto1recover/internal/cleanup"
)

type countingCleaner struct {
	calls *atomic.Int32
}

func (c countingCleaner) Clean(context.Context) {
	c.calls.Add(1)
}

func TestManager_Clean(t *testing.T) {
	calls := &atomic.Int32{}

	manager := cleanup.NewManager()
	manager.Clean(context.TODO())
	assert.Equal(t, int32(0), calls.Load())

	manager.AddCleaner(countingCleaner{calls})
	manager.AddCleaner(countingCleaner{calls})

	manager.Clean(context.TODO())
	assert.Equal(t, int32(2), calls.Load())

	manager.Clean(context.TODO())
	assert.Equal(t, int32(4), calls.Load())
}
