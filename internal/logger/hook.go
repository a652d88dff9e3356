package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// AsyncHook ghi log bất đồng bộ qua một goroutine riêng.
// Khi buffer đầy, entry bị bỏ qua và đếm vào Dropped.
type AsyncHook struct {
	writers []io.Writer
	entries chan *logrus.Entry
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

// NewAsyncHookWithWriters tạo async hook với nhiều writers.
// bufferSize <= 0 dùng mặc định 1000 entries.
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	hook := &AsyncHook{
		writers: writers,
		entries: make(chan *logrus.Entry, bufferSize),
	}

	hook.wg.Add(1)
	go hook.processEntries()

	return hook
}

// Levels trả về các log levels mà hook này xử lý
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire không block: chỉ đưa entry vào channel
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		// Hook đã đóng: ghi thẳng vào writers
		data, err := format(entry)
		if err != nil {
			return err
		}
		for _, writer := range h.writers {
			_, _ = writer.Write(data)
		}
		return nil
	}

	select {
	case h.entries <- snapshot(entry):
	default:
		h.dropped.Add(1)
	}
	return nil
}

// Dropped trả về số entry đã bị bỏ do buffer đầy
func (h *AsyncHook) Dropped() int64 {
	return h.dropped.Load()
}

// processEntries ghi entries ra writers.
// Có recover để goroutine logger không làm crash server.
func (h *AsyncHook) processEntries() {
	defer h.wg.Done()

	for entry := range h.entries {
		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Fprintf(os.Stderr, "[LOGGER PANIC] Logger goroutine panic recovered: %v\n", r)
					debug.PrintStack()
				}
			}()

			data, err := format(entry)
			if err != nil {
				return
			}
			for _, writer := range h.writers {
				_, _ = writer.Write(data)
			}
		}()
	}
}

// snapshot copy entry vì logrus tái sử dụng Data sau khi Fire trả về
func snapshot(entry *logrus.Entry) *logrus.Entry {
	dup := entry.Dup()
	dup.Level = entry.Level
	dup.Message = entry.Message
	dup.Caller = entry.Caller
	return dup
}

func format(entry *logrus.Entry) ([]byte, error) {
	if entry.Logger != nil && entry.Logger.Formatter != nil {
		return entry.Logger.Formatter.Format(entry)
	}
	line, err := entry.String()
	if err != nil {
		return nil, err
	}
	return []byte(line), nil
}

// Close đóng hook và đợi tất cả entries được ghi xong
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	close(h.entries)
	h.wg.Wait()
	return nil
}
