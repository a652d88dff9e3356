package distribution

import (
	"context"
	"testing"

	"shop_ops/internal/clock"
	"shop_ops/internal/common"

	ordermodels "shop_ops/internal/api/order/models"
	staffmodels "shop_ops/internal/api/staff/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// claimedMorning đánh dấu nhân viên đã nhận đơn sáng lúc 08:00 ngày kiểm thử
func claimedMorning(s staffmodels.Staff) staffmodels.Staff {
	s.IsMorningBatch = true
	s.ClaimedAt = at(8, 0).UnixMilli()
	return s
}

func updatesByStaff(res *RedistributeResult) map[string]int {
	out := map[string]int{}
	for _, u := range res.Updates {
		out[u.StaffID] = u.Assigned
	}
	return out
}

func TestRedistribute_LeftoverGoesToBestCloser(t *testing.T) {
	const month = "2025-04"
	h := newHarness(t, at(9, 0),
		claimedMorning(withRate(newSales("A", true), month, 5, 10)),
		claimedMorning(withRate(newSales("B", true), month, 8, 10)),
		claimedMorning(withRate(newSales("C", true), month, 8, 10)),
		claimedMorning(withRate(newSales("D", true), month, 1, 10)),
	)
	h.orders.seed(codes("o", 7)...)

	res, err := h.engine.Redistribute(context.Background(), RedistributeRequest{TriggeredBy: "M1"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, res.Outcome)
	assert.Equal(t, 3, res.Leftover)
	assert.Equal(t, "B", res.LeftoverTo)
	assert.Equal(t, map[string]int{"A": 1, "B": 4, "C": 1, "D": 1}, updatesByStaff(res))
	assert.Equal(t, 0, h.orders.poolSize())
	assert.Len(t, h.orders.assignedTo("B"), 4)

	lock := h.locks.locks[clock.DateKey("2025-05-10")]
	assert.True(t, lock.IsRedistribute)
	assert.Equal(t, "M1", lock.TriggeredBy)
	assert.Equal(t, at(9, 0).UnixMilli(), lock.TriggeredAt)
}

func TestPickLeftoverRecipient(t *testing.T) {
	const month clock.MonthKey = "2025-04"

	t.Run("tỷ lệ cao nhất, bằng nhau lấy người trước", func(t *testing.T) {
		active := []staffmodels.Staff{
			withRate(newSales("A", true), string(month), 5, 10),
			withRate(newSales("B", true), string(month), 8, 10),
			withRate(newSales("C", true), string(month), 8, 10),
		}
		assert.Equal(t, "B", pickLeftoverRecipient(active, month).StaffID)
	})

	t.Run("không có dữ liệu thì lấy người đầu", func(t *testing.T) {
		active := []staffmodels.Staff{newSales("A", true), newSales("B", true)}
		assert.Equal(t, "A", pickLeftoverRecipient(active, month).StaffID)
	})

	t.Run("mẫu số bằng 0 tính là 0", func(t *testing.T) {
		active := []staffmodels.Staff{
			withRate(newSales("A", true), string(month), 9, 0),
			withRate(newSales("B", true), string(month), 1, 10),
		}
		assert.Equal(t, "B", pickLeftoverRecipient(active, month).StaffID)
	})

	t.Run("bỏ qua dữ liệu tháng khác", func(t *testing.T) {
		active := []staffmodels.Staff{
			withRate(newSales("A", true), "2025-03", 10, 10),
			withRate(newSales("B", true), string(month), 2, 10),
		}
		assert.Equal(t, "B", pickLeftoverRecipient(active, month).StaffID)
	})
}

func TestRedistribute_OnlyOncePerDay(t *testing.T) {
	h := newHarness(t, at(9, 0), claimedMorning(newSales("A", true)), claimedMorning(newSales("B", true)))
	h.orders.seed(codes("o", 4)...)
	ctx := context.Background()

	_, err := h.engine.Redistribute(ctx, RedistributeRequest{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTrigger, h.locks.locks["2025-05-10"].TriggeredBy)

	h.orders.seed(codes("late", 3)...)
	assigned := len(h.orders.assigned)
	sent := len(h.notifier.sent)

	h.clock.Set(at(11, 0))
	res, err := h.engine.Redistribute(ctx, RedistributeRequest{TriggeredBy: "M2"})
	require.NoError(t, err)
	assert.True(t, res.Locked)
	assert.Equal(t, OutcomeAlreadyRedistributed, res.Outcome)
	assert.Contains(t, res.Message, DefaultTrigger)
	assert.Contains(t, res.Message, "09:00")
	assert.Empty(t, res.Updates)

	assert.Equal(t, 3, h.orders.poolSize())
	assert.Len(t, h.orders.assigned, assigned)
	assert.Len(t, h.notifier.sent, sent)
	assert.Equal(t, DefaultTrigger, h.locks.locks["2025-05-10"].TriggeredBy)
}

func TestRedistribute_SecondCallLockedWhenPoolEmpty(t *testing.T) {
	h := newHarness(t, at(9, 0), claimedMorning(newSales("A", true)), claimedMorning(newSales("B", true)))
	h.orders.seed(codes("o", 4)...)
	ctx := context.Background()

	first, err := h.engine.Redistribute(ctx, RedistributeRequest{TriggeredBy: "M1"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, first.Outcome)
	require.Equal(t, 0, h.orders.poolSize())

	second, err := h.engine.Redistribute(ctx, RedistributeRequest{TriggeredBy: "M2"})
	require.NoError(t, err)
	assert.True(t, second.Locked)
	assert.Equal(t, OutcomeAlreadyRedistributed, second.Outcome)
	assert.Contains(t, second.Message, "M1")
	assert.Equal(t, "M1", h.locks.locks["2025-05-10"].TriggeredBy)
}

func TestRedistribute_Outcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("kho trống", func(t *testing.T) {
		h := newHarness(t, at(9, 0), claimedMorning(newSales("A", true)))
		res, err := h.engine.Redistribute(ctx, RedistributeRequest{})
		require.NoError(t, err)
		assert.Equal(t, OutcomeNothingToClaim, res.Outcome)
		assert.Equal(t, common.ErrNothingUnclaimed.Error(), res.Message)
		assert.Empty(t, h.locks.locks)
	})

	t.Run("kho trống trước giờ chốt", func(t *testing.T) {
		h := newHarness(t, at(8, 0), claimedMorning(newSales("A", true)))
		res, err := h.engine.Redistribute(ctx, RedistributeRequest{})
		require.NoError(t, err)
		assert.Equal(t, OutcomePastCutoff, res.Outcome)
	})

	t.Run("chưa tới giờ chốt", func(t *testing.T) {
		h := newHarness(t, at(8, 29), claimedMorning(newSales("A", true)))
		h.orders.seed("o1", "o2")
		res, err := h.engine.Redistribute(ctx, RedistributeRequest{})
		require.NoError(t, err)
		assert.Equal(t, OutcomePastCutoff, res.Outcome)
		assert.Equal(t, 2, h.orders.poolSize())
		assert.Empty(t, h.locks.locks)
	})

	t.Run("không ai nhận đơn sáng", func(t *testing.T) {
		h := newHarness(t, at(9, 0), newSales("A", true))
		h.orders.seed("o1")
		res, err := h.engine.Redistribute(ctx, RedistributeRequest{})
		require.NoError(t, err)
		assert.Equal(t, OutcomeNoStaffAvailable, res.Outcome)
		assert.Equal(t, 1, h.orders.poolSize())
		assert.False(t, h.locks.locks["2025-05-10"].IsRedistribute)
	})

	t.Run("lỗi kho dữ liệu", func(t *testing.T) {
		h := newHarness(t, at(9, 0), claimedMorning(newSales("A", true)))
		h.orders.seed("o1")
		h.orders.failInsertAssigned = errStoreDown
		_, err := h.engine.Redistribute(ctx, RedistributeRequest{})
		require.Error(t, err)
		assert.True(t, common.HasCode(err, common.ErrCodeDistPersistence))
		assert.False(t, h.locks.locks["2025-05-10"].IsRedistribute)
	})
}

func TestRedistribute_SweepsStrayStaffID(t *testing.T) {
	h := newHarness(t, at(9, 0), claimedMorning(newSales("A", true)))
	ctx := context.Background()
	_, err := h.orders.InsertPending(ctx, ordermodels.NewOrder{OrderCode: "stray", StaffID: "Z"})
	require.NoError(t, err)

	res, err := h.engine.Redistribute(ctx, RedistributeRequest{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, res.Outcome)
	assert.Equal(t, []string{"stray"}, h.orders.assignedTo("A"))
	assert.Equal(t, 0, h.orders.poolSize())
}

func TestRedistribute_NotifiesEachRecipient(t *testing.T) {
	h := newHarness(t, at(9, 0),
		claimedMorning(newSales("A", true)),
		claimedMorning(newSales("B", true)),
		claimedMorning(newSales("C", true)),
	)
	h.orders.seed("o1", "o2")

	res, err := h.engine.Redistribute(context.Background(), RedistributeRequest{})
	require.NoError(t, err)
	// mỗi người 0 đơn chia đều, 2 đơn dư về người đầu tiên
	assert.Equal(t, 2, res.Leftover)
	assert.Equal(t, "A", res.LeftoverTo)
	assert.Equal(t, []sentEvent{{staffID: "A", eventType: "orders-redistributed"}}, h.notifier.sent)

	for _, o := range h.orders.assigned {
		assert.True(t, o.IsMorningBatch, "đơn dư được đánh dấu đơn sáng")
	}
}

func TestMorningScenario(t *testing.T) {
	const month = "2025-04"
	h := newHarness(t, at(7, 50),
		withRate(newSales("A", true), month, 3, 10),
		withRate(newSales("B", true), month, 7, 10),
		newSales("C", false),
	)
	h.orders.seed(codes("o", 10)...)
	ctx := context.Background()

	res, err := h.engine.ClaimMorning(ctx, ClaimRequest{StaffID: "A"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Assigned)

	h.clock.Set(at(8, 20))
	res, err = h.engine.ClaimMorning(ctx, ClaimRequest{StaffID: "B"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Assigned)

	h.clock.Set(at(8, 45))
	_, err = h.engine.ClaimMorning(ctx, ClaimRequest{StaffID: "C"})
	assert.ErrorIs(t, err, common.ErrClaimPastCutoff)

	stats, err := h.engine.ManagerStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Unclaimed)

	h.orders.seed("late1")
	h.clock.Set(at(9, 0))
	red, err := h.engine.Redistribute(ctx, RedistributeRequest{TriggeredBy: "scheduler"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, red.Outcome)
	assert.Equal(t, 1, red.Leftover)
	assert.Equal(t, "B", red.LeftoverTo)
	assert.Equal(t, map[string]int{"A": 2, "B": 3}, updatesByStaff(red))

	assert.Len(t, h.orders.assignedTo("A"), 5)
	assert.Len(t, h.orders.assignedTo("B"), 6)
	assert.Empty(t, h.orders.assignedTo("C"))
	assert.Equal(t, 0, h.orders.poolSize())
}
