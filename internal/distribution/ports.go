package distribution

import (
	"context"
	"time"

	"shop_ops/internal/clock"

	ordermodels "shop_ops/internal/api/order/models"
	staffmodels "shop_ops/internal/api/staff/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StaffRepository là góc nhìn của engine lên danh bạ nhân viên.
// Các hàm trả danh sách đều theo một thứ tự liệt kê ổn định.
type StaffRepository interface {
	// FindOnlineSales nhân viên sale đang online
	FindOnlineSales(ctx context.Context) ([]staffmodels.Staff, error)
	// FindSales toàn bộ nhân viên sale
	FindSales(ctx context.Context) ([]staffmodels.Staff, error)
	// FindByStaffID trả common.ErrNotFound khi không có
	FindByStaffID(ctx context.Context, staffID string) (staffmodels.Staff, error)
	// FindMorningClaimedBetween nhân viên sale đã nhận đơn sáng với claimedAt trong [start, end]
	FindMorningClaimedBetween(ctx context.Context, start, end time.Time) ([]staffmodels.Staff, error)
	// FindBySalaryMonth nhân viên có bản ghi lương của tháng month
	FindBySalaryMonth(ctx context.Context, month clock.MonthKey) ([]staffmodels.Staff, error)
	// MarkMorningClaimed đánh dấu nhân viên đã nhận đơn sáng lúc at
	MarkMorningClaimed(ctx context.Context, staffID string, at time.Time) error
}

// OrderRepository gom kho đơn chờ và đơn đã giao
type OrderRepository interface {
	// InsertPending ghi đơn vào kho chờ
	InsertPending(ctx context.Context, order ordermodels.NewOrder) (ordermodels.NewOrder, error)
	// CountUnassigned số đơn trong kho có staffID rỗng
	CountUnassigned(ctx context.Context) (int64, error)
	// FindUnassigned đơn chưa có người nhận, cũ trước. limit <= 0 là lấy hết.
	FindUnassigned(ctx context.Context, limit int) ([]ordermodels.NewOrder, error)
	// ResetPendingStaff xóa staffID còn sót trên mọi đơn trong kho, trả về số đơn trong kho
	ResetPendingStaff(ctx context.Context) (int64, error)
	// MarkClaimed ghi staffID, claimedAt, isMorningBatch lên các đơn trong kho
	MarkClaimed(ctx context.Context, ids []primitive.ObjectID, staffID string, at time.Time, morning bool) error
	// InsertAssigned ghi các đơn đã giao
	InsertAssigned(ctx context.Context, orders []ordermodels.ShopOrder) ([]ordermodels.ShopOrder, error)
	// DeletePending xóa các đơn khỏi kho
	DeletePending(ctx context.Context, ids []primitive.ObjectID) error
	// CountMorningAssigned đếm đơn sáng đã giao theo staffID, tạo trong [start, end)
	CountMorningAssigned(ctx context.Context, start, end time.Time) (map[string]int64, error)
}

// LockRepository lưu khóa phân phối theo ngày
type LockRepository interface {
	// FindByDate trả nil, nil khi chưa có khóa
	FindByDate(ctx context.Context, date clock.DateKey) (*ordermodels.RedistributionLock, error)
	Create(ctx context.Context, lock ordermodels.RedistributionLock) (ordermodels.RedistributionLock, error)
	// MarkRedistributed bật isRedistribute, tạo khóa nếu chưa có
	MarkRedistributed(ctx context.Context, date clock.DateKey, triggeredBy string, at time.Time) error
}

// Sequencer cấp số tăng dần theo prefix, nguyên tử
type Sequencer interface {
	Next(ctx context.Context, prefix string) (int64, error)
}

// Notifier đẩy sự kiện tới nhân viên, không có kết nối thì bỏ qua
type Notifier interface {
	Notify(ctx context.Context, staffID, eventType string, payload interface{}) error
}
