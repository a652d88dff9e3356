package distribution

import (
	"context"
	"fmt"
	"time"

	"shop_ops/internal/clock"
	"shop_ops/internal/common"
	"shop_ops/internal/logger"
	"shop_ops/internal/notification"

	staffmodels "shop_ops/internal/api/staff/models"

	"github.com/sirupsen/logrus"
)

// Người kích hoạt mặc định khi không truyền staffID
const DefaultTrigger = "manager"

// RedistributeRequest yêu cầu phân phối lại
type RedistributeRequest struct {
	TriggeredBy string
}

// StaffUpdate số đơn một nhân viên nhận được
type StaffUpdate struct {
	StaffID  string `json:"staffID"`
	Assigned int    `json:"assigned"`
}

// RedistributeResult kết quả phân phối lại
type RedistributeResult struct {
	Message  string        `json:"message"`
	Outcome  string        `json:"outcome"`
	Updates  []StaffUpdate `json:"updates"`
	Locked   bool          `json:"locked"`
	Leftover int           `json:"leftover,omitempty"`
	// LeftoverTo nhân viên nhận phần dư
	LeftoverTo string `json:"leftoverTo,omitempty"`
}

// Redistribute chia đơn còn tồn trong kho cho những nhân viên đã nhận đơn sáng nay,
// phần dư giao hết cho người có tỷ lệ chốt đơn tháng trước cao nhất.
// Mỗi ngày chỉ chạy được một lần; các trường hợp không làm gì được trả về như kết quả.
func (e *Engine) Redistribute(ctx context.Context, req RedistributeRequest) (*RedistributeResult, error) {
	start := time.Now()
	defer e.metrics.ObserveDuration("redistribute", start)

	now := e.clock.Now()
	today := e.clock.DateOf(now)

	var result *RedistributeResult
	err := e.withDayLock(ctx, today, func(ctx context.Context) error {
		var err error
		result, err = e.redistributeLocked(ctx, req, today, now)
		return err
	})
	if err != nil {
		e.metrics.ObserveRedistribution(outcomeOf(err), 0, 0)
		return nil, err
	}

	even := 0
	for _, u := range result.Updates {
		even += u.Assigned
	}
	even -= result.Leftover
	e.metrics.ObserveRedistribution(result.Outcome, even, result.Leftover)
	return result, nil
}

func (e *Engine) redistributeLocked(ctx context.Context, req RedistributeRequest, today clock.DateKey, now time.Time) (*RedistributeResult, error) {
	// Dọn staffID còn sót trên đơn trong kho do lần chạy trước dừng giữa chừng
	if _, err := e.orders.ResetPendingStaff(ctx); err != nil {
		return nil, persistence("dọn staffID trong kho", err)
	}

	if e.clock.IsBeforeCutoff(now) {
		return outcome(OutcomePastCutoff, common.ErrRedistBeforeCutoff.Error()), nil
	}

	lock, err := e.locks.FindByDate(ctx, today)
	if err != nil {
		return nil, persistence("đọc khóa ngày", err)
	}
	if lock != nil && lock.IsRedistribute {
		res := outcome(OutcomeAlreadyRedistributed, fmt.Sprintf("Đã phân phối lại bởi %s lúc %s",
			lock.TriggeredBy, time.UnixMilli(lock.TriggeredAt).In(now.Location()).Format("15:04 02/01/2006")))
		res.Locked = true
		return res, nil
	}

	dayStart, dayEnd, err := dayWindow(e.clock, today)
	if err != nil {
		return nil, err
	}
	active, err := e.staff.FindMorningClaimedBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, persistence("đọc nhân viên đã nhận đơn sáng", err)
	}
	if len(active) == 0 {
		return outcome(OutcomeNoStaffAvailable, common.ErrNoActiveStaff.Error()), nil
	}

	pool, err := e.orders.FindUnassigned(ctx, 0)
	if err != nil {
		return nil, persistence("đọc đơn trong kho", err)
	}
	if len(pool) == 0 {
		return outcome(OutcomeNothingToClaim, common.ErrNothingUnclaimed.Error()), nil
	}

	perStaff := len(pool) / len(active)
	leftover := len(pool) % len(active)

	updates := make([]StaffUpdate, 0, len(active))
	index := make(map[string]int, len(active))
	for _, s := range active {
		batch := pool[:perStaff]
		pool = pool[perStaff:]

		moved, err := e.moveToStaff(ctx, s, s.UserID, batch, now, false)
		if err != nil {
			return nil, err
		}
		index[s.StaffID] = len(updates)
		updates = append(updates, StaffUpdate{StaffID: s.StaffID, Assigned: len(moved)})
	}

	var recipient staffmodels.Staff
	if leftover > 0 {
		recipient = pickLeftoverRecipient(active, e.clock.PreviousMonthKey(now))
		moved, err := e.moveToStaff(ctx, recipient, recipient.UserID, pool, now, true)
		if err != nil {
			return nil, err
		}
		if i, ok := index[recipient.StaffID]; ok {
			updates[i].Assigned += len(moved)
		} else {
			updates = append(updates, StaffUpdate{StaffID: recipient.StaffID, Assigned: len(moved)})
		}
	}

	triggeredBy := req.TriggeredBy
	if triggeredBy == "" {
		triggeredBy = DefaultTrigger
	}
	if err := e.locks.MarkRedistributed(ctx, today, triggeredBy, now); err != nil {
		return nil, persistence("cập nhật khóa ngày", err)
	}

	for _, u := range updates {
		if u.Assigned == 0 {
			continue
		}
		e.notify(ctx, u.StaffID, notification.EventOrdersRedistributed, map[string]interface{}{
			"staffID":  u.StaffID,
			"assigned": u.Assigned,
		})
	}

	logger.ContextFields(e.log, ctx).WithFields(logrus.Fields{
		"date":        today,
		"triggeredBy": triggeredBy,
		"active":      len(active),
		"perStaff":    perStaff,
		"leftover":    leftover,
		"leftoverTo":  recipient.StaffID,
	}).Info("🔀 [DISTRIBUTION] Đã phân phối lại đơn tồn")

	return &RedistributeResult{
		Message:    "Phân phối lại hoàn tất",
		Outcome:    OutcomeCompleted,
		Updates:    updates,
		Leftover:   leftover,
		LeftoverTo: recipient.StaffID,
	}, nil
}

func outcome(kind, message string) *RedistributeResult {
	return &RedistributeResult{Message: message, Outcome: kind, Updates: []StaffUpdate{}}
}
