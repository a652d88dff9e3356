package dlock

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_SerializesSameKey(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lock, err := l.Obtain(ctx, "distribution:2025-05-10", time.Second)
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			assert.NoError(t, lock.Release(ctx))
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestLocalLocker_TimesOutAndOtherKeysFree(t *testing.T) {
	l := NewLocalLocker()
	held, err := l.Obtain(context.Background(), "a", 0)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Obtain(ctx, "a", 0)
	assert.ErrorIs(t, err, ErrNotAcquired)

	other, err := l.Obtain(context.Background(), "b", 0)
	require.NoError(t, err)
	require.NoError(t, other.Release(context.Background()))

	require.NoError(t, held.Release(context.Background()))
	// Release hai lần không panic
	require.NoError(t, held.Release(context.Background()))

	again, err := l.Obtain(context.Background(), "a", 0)
	require.NoError(t, err)
	require.NoError(t, again.Release(context.Background()))
}

type mockRedis struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
}

func newMockRedis() *mockRedis {
	return &mockRedis{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (m *mockRedis) SetNX(_ context.Context, key string, value any, exp time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	m.ttl[key] = exp
	return redis.NewBoolResult(true, nil)
}

func (m *mockRedis) Eval(_ context.Context, _ string, keys []string, args ...any) *redis.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[keys[0]] == fmt.Sprint(args[0]) {
		delete(m.data, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func TestRedisLocker_ObtainRelease(t *testing.T) {
	store := newMockRedis()
	l := &RedisLocker{client: store, retry: 5 * time.Millisecond}
	ctx := context.Background()

	lock, err := l.Obtain(ctx, "distribution:2025-05-10", 0)
	require.NoError(t, err)
	assert.Equal(t, defaultTTL, store.ttl[keyPrefix+"distribution:2025-05-10"])

	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	_, err = l.Obtain(waitCtx, "distribution:2025-05-10", time.Second)
	assert.ErrorIs(t, err, ErrNotAcquired)

	require.NoError(t, lock.Release(ctx))
	assert.Empty(t, store.data)

	next, err := l.Obtain(ctx, "distribution:2025-05-10", time.Second)
	require.NoError(t, err)
	require.NoError(t, next.Release(ctx))
}

func TestRedisLocker_ReleaseKeepsForeignToken(t *testing.T) {
	store := newMockRedis()
	l := &RedisLocker{client: store, retry: time.Millisecond}
	ctx := context.Background()

	lock, err := l.Obtain(ctx, "k", time.Second)
	require.NoError(t, err)
	// khóa hết hạn và người khác đã lấy
	store.data[keyPrefix+"k"] = "someone-else"

	require.NoError(t, lock.Release(ctx))
	assert.Equal(t, "someone-else", store.data[keyPrefix+"k"])
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(RedisConfig{})
	assert.Error(t, err)

	opts, err := optionsFromConfig(RedisConfig{URL: "redis://:secret@localhost:6380/2"})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = optionsFromConfig(RedisConfig{Address: "cache:6379", DB: 3})
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 3, opts.DB)
}
