package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_CachesWithinTTL(t *testing.T) {
	var loads int32
	idx := NewIndex(time.Minute, func(ctx context.Context) (map[string]uint, error) {
		atomic.AddInt32(&loads, 1)
		return map[string]uint{"US": 1}, nil
	})

	for i := 0; i < 3; i++ {
		m, err := idx.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint(1), m["US"])
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))

	idx.Invalidate()
	_, err := idx.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))
}

func TestIndex_ZeroTTLReloads(t *testing.T) {
	var loads int32
	idx := NewIndex(0, func(ctx context.Context) (map[string]uint, error) {
		atomic.AddInt32(&loads, 1)
		return map[string]uint{}, nil
	})

	_, _ = idx.Get(context.Background())
	_, _ = idx.Get(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))
}

func TestIndex_LoadError(t *testing.T) {
	idx := NewIndex(time.Minute, func(ctx context.Context) (map[string]uint, error) {
		return nil, errors.New("db down")
	})

	_, err := idx.Get(context.Background())
	assert.EqualError(t, err, "db down")
	assert.True(t, idx.IsExpired())
}

func TestIndex_ConcurrentGet(t *testing.T) {
	var loads int32
	idx := NewIndex(time.Minute, func(ctx context.Context) (map[string]uint, error) {
		atomic.AddInt32(&loads, 1)
		time.Sleep(20 * time.Millisecond)
		return map[string]uint{"FR": 2}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := idx.Get(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, uint(2), m["FR"])
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}
