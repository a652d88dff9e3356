package distribution

import (
	"context"

	"shop_ops/internal/clock"

	staffmodels "shop_ops/internal/api/staff/models"

	"golang.org/x/sync/errgroup"
)

// Trạng thái điểm danh buổi sáng
const (
	AttendancePresent = "Present"
	AttendanceAbsent  = "Absent"
)

// StaffAttendance một dòng trong bảng điểm danh
type StaffAttendance struct {
	StaffID string `json:"staffID"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Claimed int64  `json:"claimed"`
}

// ManagerStats bảng điểm danh nhận đơn sáng của ngày
type ManagerStats struct {
	Date      clock.DateKey     `json:"date"`
	Cutoff    int64             `json:"cutoff"`
	Staff     []StaffAttendance `json:"staff"`
	Unclaimed int64             `json:"unclaimed"`
}

// ManagerStats cho biết ai đã nhận đơn sáng hôm nay (đơn sáng tạo trước giờ chốt)
// và còn bao nhiêu đơn chưa ai nhận.
func (e *Engine) ManagerStats(ctx context.Context) (*ManagerStats, error) {
	today := e.clock.Today()
	dayStart, _, err := dayWindow(e.clock, today)
	if err != nil {
		return nil, err
	}
	cutoff, err := e.clock.CutoffOf(today)
	if err != nil {
		return nil, err
	}

	var (
		roster    []staffmodels.Staff
		counts    map[string]int64
		unclaimed int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = e.staff.FindSales(gctx)
		if err != nil {
			return persistence("đọc danh sách nhân viên sale", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		counts, err = e.orders.CountMorningAssigned(gctx, dayStart, cutoff)
		if err != nil {
			return persistence("thống kê đơn sáng", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		unclaimed, err = e.orders.CountUnassigned(gctx)
		if err != nil {
			return persistence("đếm đơn trong kho", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]StaffAttendance, 0, len(roster))
	for _, s := range roster {
		n := counts[s.StaffID]
		status := AttendanceAbsent
		if n > 0 {
			status = AttendancePresent
		}
		rows = append(rows, StaffAttendance{StaffID: s.StaffID, Name: s.Name(), Status: status, Claimed: n})
	}

	return &ManagerStats{
		Date:      today,
		Cutoff:    cutoff.UnixMilli(),
		Staff:     rows,
		Unclaimed: unclaimed,
	}, nil
}
