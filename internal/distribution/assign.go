package distribution

import (
	"context"
	"time"

	"shop_ops/internal/notification"

	ordermodels "shop_ops/internal/api/order/models"

	"github.com/sirupsen/logrus"
)

// Nơi nhận đơn khi không giao được ngay
const DestinationPool = "pool"

// AssignResult kết quả giao đơn mới
type AssignResult struct {
	Assigned bool                   `json:"assigned"`
	To       string                 `json:"to,omitempty"`
	Staff    string                 `json:"staff,omitempty"`
	Order    *ordermodels.ShopOrder `json:"order,omitempty"`
	Pending  *ordermodels.NewOrder  `json:"pending,omitempty"`
}

// AssignOrder giao đơn mới cho một nhân viên sale đang online theo round robin.
// Không ai online thì đơn vào kho chờ.
func (e *Engine) AssignOrder(ctx context.Context, order ordermodels.NewOrder) (*AssignResult, error) {
	start := time.Now()
	defer e.metrics.ObserveDuration("assign", start)

	online, err := e.staff.FindOnlineSales(ctx)
	if err != nil {
		return nil, persistence("đọc nhân viên online", err)
	}

	if len(online) == 0 {
		order.StaffID = ""
		saved, err := e.orders.InsertPending(ctx, order)
		if err != nil {
			return nil, persistence("ghi đơn vào kho", err)
		}
		e.metrics.IncAssignment(DestinationPool)
		e.log.WithField("orderCode", saved.OrderCode).Info("🔀 [DISTRIBUTION] Không có nhân viên online, đơn vào kho")
		return &AssignResult{Assigned: false, To: DestinationPool, Pending: &saved}, nil
	}

	rr, err := e.seq.Next(ctx, ordermodels.RoundRobinPrefix)
	if err != nil {
		return nil, persistence("lấy số round robin", err)
	}
	idx := int(rr % int64(len(online)))
	if idx < 0 {
		idx += len(online)
	}
	staff := online[idx]

	shop := order.ToShopOrder(staff.StaffID, staff.UserID, staff.Name(), e.clock.Now().UnixMilli(), false)
	created, err := e.orders.InsertAssigned(ctx, []ordermodels.ShopOrder{shop})
	if err != nil {
		return nil, persistence("ghi đơn đã giao", err)
	}
	assigned := shop
	if len(created) > 0 {
		assigned = created[0]
	}

	e.metrics.IncAssignment("assigned")
	e.log.WithFields(logrus.Fields{
		"orderCode": assigned.OrderCode,
		"staffID":   staff.StaffID,
		"rr":        rr,
	}).Info("🔀 [DISTRIBUTION] Đã giao đơn mới")

	e.notify(ctx, staff.StaffID, notification.EventNewOrder, map[string]interface{}{
		"staffID": staff.StaffID,
		"order":   assigned,
	})

	return &AssignResult{Assigned: true, Staff: staff.StaffID, Order: &assigned}, nil
}
