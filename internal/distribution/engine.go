// Package distribution chia đơn cho nhân viên sale: giao ngay theo round robin,
// nhận đơn buổi sáng theo hạn mức cố định trong ngày, phân phối lại phần còn tồn
// sau giờ chốt và giao phần dư cho người có tỷ lệ chốt đơn tháng trước cao nhất.
package distribution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop_ops/internal/clock"
	"shop_ops/internal/common"
	"shop_ops/internal/dlock"
	"shop_ops/internal/logger"
	"shop_ops/internal/metrics"

	ordermodels "shop_ops/internal/api/order/models"
	staffmodels "shop_ops/internal/api/staff/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultLockTTL  = 30 * time.Second
	defaultLockWait = 10 * time.Second
)

// Deps các thành phần bắt buộc của Engine
type Deps struct {
	Orders   OrderRepository
	Staff    StaffRepository
	Locks    LockRepository
	Sequence Sequencer
	Notifier Notifier
	Locker   dlock.Locker
	Clock    clock.Clock
}

func (d Deps) validate() error {
	switch {
	case d.Orders == nil:
		return errors.New("thiếu OrderRepository")
	case d.Staff == nil:
		return errors.New("thiếu StaffRepository")
	case d.Locks == nil:
		return errors.New("thiếu LockRepository")
	case d.Sequence == nil:
		return errors.New("thiếu Sequencer")
	case d.Notifier == nil:
		return errors.New("thiếu Notifier")
	case d.Locker == nil:
		return errors.New("thiếu Locker")
	case d.Clock == nil:
		return errors.New("thiếu Clock")
	}
	return nil
}

// Engine điều phối việc giao đơn
type Engine struct {
	orders   OrderRepository
	staff    StaffRepository
	locks    LockRepository
	seq      Sequencer
	notifier Notifier
	locker   dlock.Locker
	clock    clock.Clock

	lockTTL  time.Duration
	lockWait time.Duration
	metrics  *metrics.Distribution
	log      *logrus.Entry
}

// Option tùy chỉnh Engine
type Option func(*Engine)

// WithLockTiming đặt TTL của khóa ngày và thời gian chờ lấy khóa
func WithLockTiming(ttl, wait time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.lockTTL = ttl
		}
		if wait > 0 {
			e.lockWait = wait
		}
	}
}

// WithMetrics gắn bộ metrics
func WithMetrics(m *metrics.Distribution) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine tạo Engine
func NewEngine(d Deps, opts ...Option) (*Engine, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		orders:   d.Orders,
		staff:    d.Staff,
		locks:    d.Locks,
		seq:      d.Sequence,
		notifier: d.Notifier,
		locker:   d.Locker,
		clock:    d.Clock,
		lockTTL:  defaultLockTTL,
		lockWait: defaultLockWait,
		log:      logger.WithModule("distribution"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// withDayLock chạy fn khi đang giữ khóa của ngày nghiệp vụ day.
// Nhận đơn sáng và phân phối lại trong cùng ngày không chạy chồng nhau.
func (e *Engine) withDayLock(ctx context.Context, day clock.DateKey, fn func(ctx context.Context) error) error {
	waitCtx, cancel := context.WithTimeout(ctx, e.lockWait)
	defer cancel()

	lock, err := e.locker.Obtain(waitCtx, "distribution:"+string(day), e.lockTTL)
	if err != nil {
		return common.NewPersistenceError("lấy khóa ngày "+string(day), err)
	}
	defer func() {
		// ctx của request có thể đã hủy, vẫn phải nhả khóa
		releaseCtx, cancelRelease := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelRelease()
		if err := lock.Release(releaseCtx); err != nil {
			e.log.WithError(err).WithField("date", day).Warn("🔀 [DISTRIBUTION] Nhả khóa ngày thất bại")
		}
	}()
	return fn(ctx)
}

// moveToStaff chuyển các đơn từ kho sang đơn đã giao của một nhân viên:
// đánh dấu trong kho, ghi đơn đã giao, rồi xóa khỏi kho.
// Lỗi giữa chừng để lại staffID trên đơn trong kho, lần phân phối lại sau sẽ dọn.
func (e *Engine) moveToStaff(ctx context.Context, staff staffmodels.Staff, userID primitive.ObjectID, pending []ordermodels.NewOrder, at time.Time, morning bool) ([]ordermodels.ShopOrder, error) {
	if len(pending) == 0 {
		return []ordermodels.ShopOrder{}, nil
	}
	if userID.IsZero() {
		userID = staff.UserID
	}

	ids := make([]primitive.ObjectID, len(pending))
	assigned := make([]ordermodels.ShopOrder, len(pending))
	for i, o := range pending {
		ids[i] = o.ID
		assigned[i] = o.ToShopOrder(staff.StaffID, userID, staff.Name(), at.UnixMilli(), morning)
	}

	if err := e.orders.MarkClaimed(ctx, ids, staff.StaffID, at, morning); err != nil {
		return nil, common.NewPersistenceError("đánh dấu đơn trong kho", err)
	}
	created, err := e.orders.InsertAssigned(ctx, assigned)
	if err != nil {
		return nil, common.NewPersistenceError("ghi đơn đã giao", err)
	}
	if err := e.orders.DeletePending(ctx, ids); err != nil {
		return nil, common.NewPersistenceError("xóa đơn khỏi kho", err)
	}
	return created, nil
}

// notify gửi sự kiện, lỗi chỉ ghi log
func (e *Engine) notify(ctx context.Context, staffID, eventType string, payload interface{}) {
	if err := e.notifier.Notify(ctx, staffID, eventType, payload); err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{
			"staffID": staffID,
			"event":   eventType,
		}).Warn("🔀 [DISTRIBUTION] Gửi thông báo thất bại")
	}
}

// persistence bọc lỗi kho dữ liệu, giữ nguyên lỗi đã phân loại
func persistence(op string, err error) error {
	var custom *common.Error
	if errors.As(err, &custom) && custom.Code == common.ErrCodeDistPersistence {
		return err
	}
	return common.NewPersistenceError(op, err)
}

func dayWindow(c clock.Clock, day clock.DateKey) (time.Time, time.Time, error) {
	start, end, err := c.DayWindow(day)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("tính khung ngày %s: %w", day, err)
	}
	return start, end, nil
}
