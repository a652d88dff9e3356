package worker

import (
	"context"
	"sync"
	"time"

	"shop_ops/internal/clock"
	"shop_ops/internal/distribution"
	"shop_ops/internal/logger"
)

// Người kích hoạt ghi vào khóa ngày khi worker tự chạy
const SchedulerTrigger = "scheduler"

// Redistributor là phần engine mà worker cần
type Redistributor interface {
	Redistribute(ctx context.Context, req distribution.RedistributeRequest) (*distribution.RedistributeResult, error)
}

// RedistributeWorker tự phân phối lại đơn tồn mỗi ngày khi tới giờ runAt (giờ nghiệp vụ).
// Kiểm tra theo chu kỳ interval, mỗi ngày chỉ gọi thành công một lần.
// Khóa ngày trong engine vẫn chặn nếu quản lý đã bấm phân phối lại trước đó.
type RedistributeWorker struct {
	engine   Redistributor
	clock    clock.Clock
	runAt    clock.Cutoff
	interval time.Duration

	mu      sync.Mutex
	lastRun clock.DateKey
}

// NewRedistributeWorker tạo mới RedistributeWorker.
// Tham số:
//   - runAt: giờ chạy dạng HH:MM (mặc định 09:00)
//   - interval: chu kỳ kiểm tra (tối thiểu 1 giây, mặc định 1 phút)
func NewRedistributeWorker(engine Redistributor, c clock.Clock, runAt string, interval time.Duration) (*RedistributeWorker, error) {
	if runAt == "" {
		runAt = "09:00"
	}
	at, err := clock.ParseCutoff(runAt)
	if err != nil {
		return nil, err
	}
	if interval < time.Second {
		interval = time.Minute
	}
	return &RedistributeWorker{
		engine:   engine,
		clock:    c,
		runAt:    at,
		interval: interval,
	}, nil
}

// Start chạy vòng lặp tới khi ctx bị hủy
func (w *RedistributeWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
		"runAt":    w.runAt.String(),
	}).Info("🔀 [REDISTRIBUTE_WORKER] Starting Redistribute Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🔀 [REDISTRIBUTE_WORKER] Redistribute Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("🔀 [REDISTRIBUTE_WORKER] Panic khi phân phối lại, sẽ thử lại ở lần chạy tiếp theo")
					}
				}()
				w.tick(ctx)
			}()
		}
	}
}

// tick gọi engine nếu đã qua giờ chạy và hôm nay chưa chạy xong. Trả về true khi có gọi engine.
func (w *RedistributeWorker) tick(ctx context.Context) bool {
	log := logger.GetAppLogger()

	now := w.clock.Now()
	today := w.clock.DateOf(now)

	w.mu.Lock()
	done := w.lastRun == today
	w.mu.Unlock()
	if done {
		return false
	}

	start, _, err := w.clock.DayWindow(today)
	if err != nil {
		log.WithError(err).Error("🔀 [REDISTRIBUTE_WORKER] Không tính được đầu ngày")
		return false
	}
	due := start.Add(time.Duration(w.runAt.Hour)*time.Hour + time.Duration(w.runAt.Minute)*time.Minute)
	if now.Before(due) {
		return false
	}

	result, err := w.engine.Redistribute(ctx, distribution.RedistributeRequest{TriggeredBy: SchedulerTrigger})
	if err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"date": string(today),
		}).Warn("🔀 [REDISTRIBUTE_WORKER] Phân phối lại thất bại, thử lại ở chu kỳ sau")
		return true
	}

	// Mọi kết quả không lỗi đều là trạng thái cuối của ngày
	w.mu.Lock()
	w.lastRun = today
	w.mu.Unlock()

	log.WithFields(map[string]interface{}{
		"date":     string(today),
		"outcome":  result.Outcome,
		"leftover": result.Leftover,
		"staff":    len(result.Updates),
	}).Info("🔀 [REDISTRIBUTE_WORKER] Đã chạy phân phối lại trong ngày")
	return true
}
