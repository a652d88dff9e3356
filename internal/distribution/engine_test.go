package distribution

import (
	"context"
	"fmt"
	"testing"

	"shop_ops/internal/common"

	ordermodels "shop_ops/internal/api/order/models"
	staffmodels "shop_ops/internal/api/staff/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine_RequiresDeps(t *testing.T) {
	_, err := NewEngine(Deps{})
	assert.Error(t, err)
}

func TestAssignOrder_RoundRobinIsFair(t *testing.T) {
	h := newHarness(t, at(14, 0), newSales("A", true), newSales("B", true), newSales("C", true))
	ctx := context.Background()

	var order []string
	for i := 0; i < 10; i++ {
		res, err := h.engine.AssignOrder(ctx, ordermodels.NewOrder{OrderCode: fmt.Sprintf("SP-%06d", i)})
		require.NoError(t, err)
		require.True(t, res.Assigned)
		order = append(order, res.Staff)
	}

	// ba lượt đầu đi qua đủ ba người, sau đó lặp lại đúng chu kỳ
	assert.ElementsMatch(t, []string{"A", "B", "C"}, order[:3])
	for i := 3; i < len(order); i++ {
		assert.Equal(t, order[i-3], order[i], "lượt %d", i)
	}

	counts := map[string]int{}
	for _, s := range order {
		counts[s]++
	}
	for _, id := range []string{"A", "B", "C"} {
		assert.True(t, counts[id] == 3 || counts[id] == 4, "%s nhận %d đơn", id, counts[id])
	}
	assert.Equal(t, int64(10), h.seq.counters[ordermodels.RoundRobinPrefix])
	assert.Equal(t, 0, h.orders.poolSize())
}

func TestAssignOrder_OrderCodeCounterDoesNotSkewRotation(t *testing.T) {
	h := newHarness(t, at(14, 0), newSales("A", true), newSales("B", true))
	ctx := context.Background()

	counts := map[string]int{}
	for i := 0; i < 6; i++ {
		// mã sản phẩm trùng tên sự kiện vẫn dùng bộ đếm riêng
		seq, err := h.seq.Next(ctx, ordermodels.OrderCodePrefix("new-order"))
		require.NoError(t, err)
		res, err := h.engine.AssignOrder(ctx, ordermodels.NewOrder{OrderCode: fmt.Sprintf("new-order-%06d", seq)})
		require.NoError(t, err)
		counts[res.Staff]++
	}
	assert.Equal(t, map[string]int{"A": 3, "B": 3}, counts)
}

func TestAssignOrder_StampsStaffAndNotifies(t *testing.T) {
	a := newSales("A", true)
	h := newHarness(t, at(14, 0), a)

	res, err := h.engine.AssignOrder(context.Background(), ordermodels.NewOrder{OrderCode: "SP1-000001"})
	require.NoError(t, err)
	require.NotNil(t, res.Order)
	assert.Equal(t, "A", res.Order.StaffID)
	assert.Equal(t, a.UserID, res.Order.UserID)
	assert.Equal(t, "Nhân viên A", res.Order.Final.Staff)
	assert.False(t, res.Order.IsMorningBatch)

	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, sentEvent{staffID: "A", eventType: "new-order"}, h.notifier.sent[0])
}

func TestAssignOrder_NoOnlineStaffGoesToPool(t *testing.T) {
	packer := newSales("P", true)
	packer.Role = staffmodels.RolePacker
	h := newHarness(t, at(14, 0), newSales("A", false), packer)

	for i := 0; i < 3; i++ {
		res, err := h.engine.AssignOrder(context.Background(), ordermodels.NewOrder{OrderCode: fmt.Sprintf("SP-%d", i)})
		require.NoError(t, err)
		assert.False(t, res.Assigned)
		assert.Equal(t, DestinationPool, res.To)
		require.NotNil(t, res.Pending)
	}
	assert.Equal(t, 3, h.orders.poolSize())
	assert.Empty(t, h.orders.assigned)
	assert.Empty(t, h.seq.counters)
	assert.Empty(t, h.notifier.sent)
}

func TestAssignOrder_NotifyFailureKeepsAssignment(t *testing.T) {
	h := newHarness(t, at(14, 0), newSales("A", true))
	h.notifier.err = fmt.Errorf("socket gone")

	res, err := h.engine.AssignOrder(context.Background(), ordermodels.NewOrder{OrderCode: "X"})
	require.NoError(t, err)
	assert.True(t, res.Assigned)
	assert.Len(t, h.orders.assigned, 1)
}

func TestAssignOrder_PersistenceError(t *testing.T) {
	h := newHarness(t, at(14, 0), newSales("A", true))
	h.orders.failInsertAssigned = errStoreDown

	_, err := h.engine.AssignOrder(context.Background(), ordermodels.NewOrder{OrderCode: "X"})
	require.Error(t, err)
	assert.True(t, common.HasCode(err, common.ErrCodeDistPersistence))
	assert.ErrorIs(t, err, errStoreDown)

	h.orders.failInsertAssigned = nil
	h.seq.err = errStoreDown
	_, err = h.engine.AssignOrder(context.Background(), ordermodels.NewOrder{OrderCode: "Y"})
	assert.True(t, common.HasCode(err, common.ErrCodeDistPersistence))
}
