package distribution

import (
	"context"
	"testing"

	staffmodels "shop_ops/internal/api/staff/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseRate(t *testing.T) {
	rate, ok := closeRate(staffmodels.SalaryRecord{TotalCloseOrder: 2, TotalDistributionOrder: 3})
	assert.True(t, ok)
	assert.Equal(t, 66.67, rate)

	_, ok = closeRate(staffmodels.SalaryRecord{TotalCloseOrder: 2})
	assert.False(t, ok)
}

func TestTopCloser(t *testing.T) {
	ctx := context.Background()

	t.Run("tháng hiện tại", func(t *testing.T) {
		h := newHarness(t, at(10, 0),
			withRate(newSales("A", true), "2025-05", 4, 10),
			withRate(newSales("B", true), "2025-05", 9, 10),
			withRate(newSales("C", true), "2025-05", 1, 0),
		)
		res, err := h.engine.TopCloser(ctx, "2025-05")
		require.NoError(t, err)
		assert.Equal(t, "Đã tìm thấy nhân viên chốt đơn tốt nhất", res.Message)
		assert.EqualValues(t, "2025-05", res.UsedMonth)
		require.NotNil(t, res.TopStaff)
		assert.Equal(t, "B", res.TopStaff.StaffID)
		assert.Equal(t, 90.0, res.TopStaff.Rate)
		require.Len(t, res.Ranking, 2)
		assert.Equal(t, "A", res.Ranking[1].StaffID)
	})

	t.Run("lùi về tháng trước", func(t *testing.T) {
		h := newHarness(t, at(10, 0), withRate(newSales("A", true), "2024-12", 3, 4))
		res, err := h.engine.TopCloser(ctx, "2025-01")
		require.NoError(t, err)
		assert.EqualValues(t, "2024-12", res.UsedMonth)
		require.NotNil(t, res.TopStaff)
		assert.Equal(t, 75.0, res.TopStaff.Rate)
	})

	t.Run("không có dữ liệu", func(t *testing.T) {
		h := newHarness(t, at(10, 0), newSales("A", true))
		res, err := h.engine.TopCloser(ctx, "2025-05")
		require.NoError(t, err)
		assert.Equal(t, "Không có dữ liệu lương", res.Message)
		assert.Nil(t, res.TopStaff)
		assert.Empty(t, res.Ranking)
	})

	t.Run("có bản ghi nhưng mẫu số bằng 0", func(t *testing.T) {
		h := newHarness(t, at(10, 0), withRate(newSales("A", true), "2025-05", 3, 0))
		res, err := h.engine.TopCloser(ctx, "2025-05")
		require.NoError(t, err)
		assert.Equal(t, "Không có dữ liệu hợp lệ cho tháng này hoặc tháng trước", res.Message)
		assert.Nil(t, res.TopStaff)
	})

	t.Run("tháng sai định dạng", func(t *testing.T) {
		h := newHarness(t, at(10, 0))
		_, err := h.engine.TopCloser(ctx, "05-2025")
		assert.Error(t, err)
	})
}

func TestManagerStats(t *testing.T) {
	h := newHarness(t, at(8, 0), newSales("A", true), newSales("B", true))
	h.orders.seed(codes("o", 6)...)
	ctx := context.Background()

	_, err := h.engine.ClaimMorning(ctx, ClaimRequest{StaffID: "A"})
	require.NoError(t, err)

	// đơn giao sau giờ chốt không tính là đơn sáng
	h.clock.Set(at(9, 0))
	_, err = h.engine.Redistribute(ctx, RedistributeRequest{})
	require.NoError(t, err)

	stats, err := h.engine.ManagerStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, "2025-05-10", stats.Date)
	assert.Equal(t, at(8, 30).UnixMilli(), stats.Cutoff)
	assert.Equal(t, int64(0), stats.Unclaimed)
	assert.Equal(t, []StaffAttendance{
		{StaffID: "A", Name: "Nhân viên A", Status: AttendancePresent, Claimed: 3},
		{StaffID: "B", Name: "Nhân viên B", Status: AttendanceAbsent, Claimed: 0},
	}, stats.Staff)
}
