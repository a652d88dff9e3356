package distribution

import (
	"context"
	"errors"
	"time"

	"shop_ops/internal/clock"
	"shop_ops/internal/common"
	"shop_ops/internal/logger"

	ordermodels "shop_ops/internal/api/order/models"
	staffmodels "shop_ops/internal/api/staff/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kết quả của các thao tác phân phối
const (
	OutcomeAssigned             = "assigned"
	OutcomeCompleted            = "completed"
	OutcomePastCutoff           = "past-cutoff"
	OutcomeNoStaffAvailable     = "no-staff-available"
	OutcomeNothingToClaim       = "nothing-to-claim"
	OutcomeAlreadyRedistributed = "already-redistributed"
	OutcomeAlreadyClaimed       = "already-claimed"
	OutcomePersistenceError     = "persistence-error"
)

// outcomeOf ánh xạ lỗi sang nhãn kết quả cho metrics
func outcomeOf(err error) string {
	switch {
	case common.HasCode(err, common.ErrCodeDistPastCutoff):
		return OutcomePastCutoff
	case common.HasCode(err, common.ErrCodeDistAlreadyClaimed):
		return OutcomeAlreadyClaimed
	case common.HasCode(err, common.ErrCodeDistNoStaff):
		return OutcomeNoStaffAvailable
	case common.HasCode(err, common.ErrCodeDistPersistence):
		return OutcomePersistenceError
	}
	return "error"
}

// ClaimRequest yêu cầu nhận đơn buổi sáng
type ClaimRequest struct {
	StaffID string
	UserID  primitive.ObjectID // rỗng thì lấy userId trên hồ sơ nhân viên
}

// ClaimResult kết quả nhận đơn buổi sáng
type ClaimResult struct {
	Outcome  string                  `json:"outcome"`
	Assigned int                     `json:"assigned"`
	Orders   []ordermodels.ShopOrder `json:"orders"`
	Message  string                  `json:"message"`
}

// ClaimMorning cho nhân viên nhận phần đơn của mình trước giờ chốt.
// Hạn mức mỗi người tính một lần ở lượt nhận đầu tiên trong ngày.
// Lỗi điều kiện (quá giờ, đã nhận, không có nhân viên) trả về *common.Error;
// không còn đơn để nhận là kết quả bình thường.
func (e *Engine) ClaimMorning(ctx context.Context, req ClaimRequest) (*ClaimResult, error) {
	start := time.Now()
	defer e.metrics.ObserveDuration("claim", start)

	now := e.clock.Now()
	if !e.clock.IsBeforeCutoff(now) {
		e.metrics.ObserveClaim(OutcomePastCutoff, 0)
		return nil, common.ErrClaimPastCutoff
	}
	today := e.clock.DateOf(now)

	var result *ClaimResult
	err := e.withDayLock(ctx, today, func(ctx context.Context) error {
		var err error
		result, err = e.claimLocked(ctx, req, today, now)
		return err
	})
	if err != nil {
		e.metrics.ObserveClaim(outcomeOf(err), 0)
		return nil, err
	}
	e.metrics.ObserveClaim(result.Outcome, result.Assigned)
	return result, nil
}

func (e *Engine) claimLocked(ctx context.Context, req ClaimRequest, today clock.DateKey, now time.Time) (*ClaimResult, error) {
	dayStart, dayEnd, err := dayWindow(e.clock, today)
	if err != nil {
		return nil, err
	}

	staff, found, err := e.lookupStaff(ctx, req.StaffID)
	if err != nil {
		return nil, err
	}
	if found && claimedWithin(staff, dayStart, dayEnd) {
		return nil, common.ErrAlreadyClaimed
	}

	roster, err := e.staff.FindSales(ctx)
	if err != nil {
		return nil, persistence("đọc danh sách nhân viên sale", err)
	}
	if len(roster) == 0 {
		return nil, common.ErrNoSalesStaff
	}
	// nhân viên không tồn tại không được chốt hạn mức của ngày
	if !found {
		return nil, common.NewError(common.ErrCodeDistNoStaff,
			"Không tìm thấy nhân viên "+req.StaffID, common.StatusBadRequest, nil)
	}

	lock, err := e.resolveDayLock(ctx, today, len(roster))
	if err != nil {
		return nil, err
	}

	if lock.PerStaff <= 0 {
		return nothingToClaim(), nil
	}
	pending, err := e.orders.FindUnassigned(ctx, lock.PerStaff)
	if err != nil {
		return nil, persistence("đọc đơn trong kho", err)
	}
	if len(pending) == 0 {
		return nothingToClaim(), nil
	}

	orders, err := e.moveToStaff(ctx, staff, req.UserID, pending, now, true)
	if err != nil {
		return nil, err
	}
	if err := e.staff.MarkMorningClaimed(ctx, staff.StaffID, now); err != nil {
		return nil, persistence("đánh dấu nhân viên đã nhận đơn", err)
	}

	logger.ContextFields(e.log, ctx).WithFields(logrus.Fields{
		"staffID":  staff.StaffID,
		"date":     today,
		"perStaff": lock.PerStaff,
		"assigned": len(orders),
	}).Info("🔀 [DISTRIBUTION] Nhân viên đã nhận đơn buổi sáng")

	return &ClaimResult{
		Outcome:  OutcomeAssigned,
		Assigned: len(orders),
		Orders:   orders,
		Message:  "Nhận đơn thành công",
	}, nil
}

// resolveDayLock đọc khóa của ngày, chưa có thì tạo với hạn mức tính từ số đơn tồn hiện tại
func (e *Engine) resolveDayLock(ctx context.Context, today clock.DateKey, rosterSize int) (*ordermodels.RedistributionLock, error) {
	lock, err := e.locks.FindByDate(ctx, today)
	if err != nil {
		return nil, persistence("đọc khóa ngày", err)
	}
	if lock != nil {
		return lock, nil
	}

	backlog, err := e.orders.CountUnassigned(ctx)
	if err != nil {
		return nil, persistence("đếm đơn trong kho", err)
	}
	created, err := e.locks.Create(ctx, ordermodels.RedistributionLock{
		Date:     string(today),
		Type:     ordermodels.LockTypeMorningClaim,
		PerStaff: int(backlog) / rosterSize,
		Leftover: int(backlog) % rosterSize,
	})
	if err != nil {
		// instance khác đã tạo trước, dùng bản đã có
		if errors.Is(err, common.ErrMongoDuplicate) || errors.Is(err, common.ErrDuplicate) {
			existing, findErr := e.locks.FindByDate(ctx, today)
			if findErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, persistence("tạo khóa ngày", err)
	}

	e.log.WithFields(logrus.Fields{
		"date":     today,
		"backlog":  backlog,
		"staff":    rosterSize,
		"perStaff": created.PerStaff,
		"leftover": created.Leftover,
	}).Info("🔀 [DISTRIBUTION] Tạo khóa ngày")
	return &created, nil
}

func (e *Engine) lookupStaff(ctx context.Context, staffID string) (staffmodels.Staff, bool, error) {
	staff, err := e.staff.FindByStaffID(ctx, staffID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return staffmodels.Staff{}, false, nil
		}
		return staffmodels.Staff{}, false, persistence("đọc nhân viên", err)
	}
	return staff, true, nil
}

func claimedWithin(s staffmodels.Staff, start, end time.Time) bool {
	if !s.IsMorningBatch || s.ClaimedAt == 0 {
		return false
	}
	return s.ClaimedAt >= start.UnixMilli() && s.ClaimedAt <= end.UnixMilli()
}

func nothingToClaim() *ClaimResult {
	return &ClaimResult{
		Outcome: OutcomeNothingToClaim,
		Orders:  []ordermodels.ShopOrder{},
		Message: common.ErrNothingToClaim.Error(),
	}
}
