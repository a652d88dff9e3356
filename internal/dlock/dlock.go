// Package dlock cung cấp khóa loại trừ theo key cho các đoạn găng của phân phối đơn.
// Có hai bản: Redis (nhiều instance) và trong process (một instance hoặc test).
package dlock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNotAcquired trả về khi hết thời gian chờ mà chưa lấy được khóa
var ErrNotAcquired = errors.New("không lấy được khóa")

// Lock là khóa đang giữ
type Lock interface {
	Release(ctx context.Context) error
}

// Locker cấp khóa theo key. Obtain chờ tới khi lấy được khóa hoặc ctx hết hạn.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// LocalLocker khóa theo key trong một process. ttl bị bỏ qua: khóa giữ tới khi Release.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewLocalLocker tạo LocalLocker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]chan struct{})}
}

// Obtain lấy khóa key
func (l *LocalLocker) Obtain(ctx context.Context, key string, _ time.Duration) (Lock, error) {
	for {
		l.mu.Lock()
		held, busy := l.locks[key]
		if !busy {
			ch := make(chan struct{})
			l.locks[key] = ch
			l.mu.Unlock()
			return &localLock{owner: l, key: key, ch: ch}, nil
		}
		l.mu.Unlock()

		select {
		case <-held:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w %s: %v", ErrNotAcquired, key, ctx.Err())
		}
	}
}

type localLock struct {
	owner *LocalLocker
	key   string
	ch    chan struct{}
	once  sync.Once
}

func (k *localLock) Release(context.Context) error {
	k.once.Do(func() {
		k.owner.mu.Lock()
		if k.owner.locks[k.key] == k.ch {
			delete(k.owner.locks, k.key)
		}
		k.owner.mu.Unlock()
		close(k.ch)
	})
	return nil
}
