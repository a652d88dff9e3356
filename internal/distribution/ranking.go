package distribution

import (
	"context"
	"sort"

	"shop_ops/internal/clock"

	staffmodels "shop_ops/internal/api/staff/models"

	"github.com/shopspring/decimal"
)

// CloseRate tỷ lệ chốt đơn của một nhân viên trong một tháng
type CloseRate struct {
	StaffID                string  `json:"staffID"`
	Name                   string  `json:"name"`
	Rate                   float64 `json:"rate"` // phần trăm, làm tròn 2 chữ số
	TotalCloseOrder        int     `json:"totalCloseOrder"`
	TotalDistributionOrder int     `json:"totalDistributionOrder"`
}

// TopCloserResult kết quả xếp hạng chốt đơn
type TopCloserResult struct {
	Message   string         `json:"message"`
	UsedMonth clock.MonthKey `json:"usedMonth,omitempty"`
	TopStaff  *CloseRate     `json:"topStaff,omitempty"`
	Ranking   []CloseRate    `json:"ranking"`
}

// closeRate = totalCloseOrder / totalDistributionOrder * 100. ok=false khi mẫu số bằng 0.
func closeRate(r staffmodels.SalaryRecord) (float64, bool) {
	if r.TotalDistributionOrder <= 0 {
		return 0, false
	}
	rate := decimal.NewFromInt(int64(r.TotalCloseOrder)).
		Div(decimal.NewFromInt(int64(r.TotalDistributionOrder))).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	f, _ := rate.Float64()
	return f, true
}

// rankByCloseRate xếp hạng nhân viên có dữ liệu hợp lệ của month, cao trước.
// Bằng nhau thì giữ thứ tự liệt kê.
func rankByCloseRate(staff []staffmodels.Staff, month clock.MonthKey) []CloseRate {
	ranking := make([]CloseRate, 0, len(staff))
	for _, s := range staff {
		rec, ok := s.SalaryFor(string(month))
		if !ok {
			continue
		}
		rate, valid := closeRate(rec)
		if !valid {
			continue
		}
		ranking = append(ranking, CloseRate{
			StaffID:                s.StaffID,
			Name:                   s.Name(),
			Rate:                   rate,
			TotalCloseOrder:        rec.TotalCloseOrder,
			TotalDistributionOrder: rec.TotalDistributionOrder,
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool { return ranking[i].Rate > ranking[j].Rate })
	return ranking
}

// pickLeftoverRecipient chọn người nhận toàn bộ phần dư: tỷ lệ chốt tháng month cao nhất.
// Không có bản ghi hoặc mẫu số bằng 0 tính là 0. Bằng nhau lấy người gặp trước.
// Không chọn được ai thì lấy người đầu tiên.
func pickLeftoverRecipient(active []staffmodels.Staff, month clock.MonthKey) staffmodels.Staff {
	best := -1.0
	chosen := -1
	for i, s := range active {
		rate := 0.0
		if rec, ok := s.SalaryFor(string(month)); ok {
			if r, valid := closeRate(rec); valid {
				rate = r
			}
		}
		if rate > best {
			best = rate
			chosen = i
		}
	}
	if chosen < 0 {
		return active[0]
	}
	return active[chosen]
}

// TopCloser tìm nhân viên có tỷ lệ chốt đơn cao nhất của month.
// Không ai có dữ liệu tháng đó thì dùng tháng trước.
func (e *Engine) TopCloser(ctx context.Context, month clock.MonthKey) (*TopCloserResult, error) {
	used := month
	staff, err := e.staff.FindBySalaryMonth(ctx, month)
	if err != nil {
		return nil, persistence("đọc lịch sử lương", err)
	}
	if len(staff) == 0 {
		prev, err := clock.PreviousMonth(month)
		if err != nil {
			return nil, err
		}
		used = prev
		staff, err = e.staff.FindBySalaryMonth(ctx, prev)
		if err != nil {
			return nil, persistence("đọc lịch sử lương", err)
		}
	}

	if len(staff) == 0 {
		return &TopCloserResult{Message: "Không có dữ liệu lương", Ranking: []CloseRate{}}, nil
	}

	ranking := rankByCloseRate(staff, used)
	if len(ranking) == 0 {
		return &TopCloserResult{
			Message:   "Không có dữ liệu hợp lệ cho tháng này hoặc tháng trước",
			UsedMonth: used,
			Ranking:   ranking,
		}, nil
	}

	top := ranking[0]
	return &TopCloserResult{
		Message:   "Đã tìm thấy nhân viên chốt đơn tốt nhất",
		UsedMonth: used,
		TopStaff:  &top,
		Ranking:   ranking,
	}, nil
}
